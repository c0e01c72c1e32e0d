package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/davecgh/go-spew/spew"
	"github.com/deso-protocol/go-deadlock"
	"github.com/deso-protocol/ternpow/encoding"
	"github.com/deso-protocol/ternpow/lib"
	"github.com/golang/glog"
	"github.com/oleiade/lane"
	"github.com/pkg/errors"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

const statsReportInterval = 5 * time.Second

// MineJob is one message to mine, tagged with where it came from for logs.
type MineJob struct {
	Source string
	Trits  []encoding.Trit
}

type Node struct {
	// Components
	Miner        *lib.TernaryMiner
	Stats        *lib.MinerStats
	StatsManager *lib.StatsManager

	Config       *Config
	statsdClient statsd.ClientInterface

	// jobs holds the *MineJob values MineAll has yet to get to.
	jobs *lane.Deque

	// IsRunning is false when a NewNode is created, set to true on Start(), set to false
	// after Stop() is called. Mainly used in testing.
	IsRunning bool
	// runningMutex is held whenever we call Start() or Stop() on the node.
	runningMutex deadlock.Mutex
}

func NewNode(config *Config) *Node {
	result := Node{}
	result.Config = config
	result.jobs = lane.NewDeque()

	return &result
}

// Start sets up logging, metrics and the miner.
func (node *Node) Start() error {
	flag.Set("log_dir", node.Config.LogDirectory)
	flag.Set("v", fmt.Sprintf("%d", node.Config.GlogV))
	flag.Set("vmodule", node.Config.GlogVmodule)
	flag.Set("alsologtostderr", "true")
	// cobra owns os.Args. This only marks the standard flags parsed for glog.
	flag.CommandLine.Parse([]string{})
	glog.CopyStandardLogTo("INFO")
	node.runningMutex.Lock()
	defer node.runningMutex.Unlock()

	if node.IsRunning {
		return nil
	}

	// Print config
	node.Config.Print()

	// Setup Datadog profiler
	if node.Config.DatadogProfiler {
		err := profiler.Start(profiler.WithProfileTypes(profiler.CPUProfile, profiler.BlockProfile, profiler.MutexProfile, profiler.GoroutineProfile, profiler.HeapProfile))
		if err != nil {
			return errors.Wrapf(err, "Node.Start: Problem starting profiler")
		}
	}

	// Setup statsd
	if node.Config.StatsdAddress != "" {
		statsdClient, err := statsd.New(node.Config.StatsdAddress)
		if err != nil {
			return errors.Wrapf(err, "Node.Start: Problem connecting to statsd at %s", node.Config.StatsdAddress)
		}
		node.statsdClient = statsdClient
	}

	node.Stats = lib.NewMinerStats()
	miner, err := lib.NewTernaryMiner(node.Config.NumMiningThreads, node.Config.MidStateCacheSize, node.Stats)
	if err != nil {
		node.stopMetrics()
		return errors.Wrapf(err, "Node.Start: Problem creating miner")
	}
	node.Miner = miner

	node.StatsManager = lib.NewStatsManager(node.Stats, node.statsdClient, statsReportInterval)
	node.StatsManager.Start()

	node.IsRunning = true
	glog.Infof(lib.CLog(lib.Green, fmt.Sprintf("Node.Start: Miner ready with %d threads", node.Miner.NumThreads())))
	return nil
}

// Stop cancels any search in flight and shuts down metrics. It is safe to
// call more than once.
func (node *Node) Stop() {
	node.runningMutex.Lock()
	defer node.runningMutex.Unlock()

	if !node.IsRunning {
		return
	}
	node.Miner.Cancel()
	node.StatsManager.Stop()
	node.stopMetrics()

	snapshot := node.Stats.Snapshot()
	glog.Infof("Node.Stop: Searches: %d, solutions: %d, cancellations: %d, failures: %d, hashes: %d",
		snapshot.Searches, snapshot.Solutions, snapshot.Cancellations, snapshot.Failures, snapshot.Hashes)
	node.IsRunning = false
}

func (node *Node) stopMetrics() {
	if node.statsdClient != nil {
		if err := node.statsdClient.Close(); err != nil {
			glog.Errorf("Node.stopMetrics: Problem closing statsd client: %v", err)
		}
		node.statsdClient = nil
	}
	if node.Config.DatadogProfiler {
		profiler.Stop()
	}
}

// EnqueueJobs queues jobs for the next MineAll.
func (node *Node) EnqueueJobs(jobs []*MineJob) {
	for _, job := range jobs {
		node.jobs.Append(job)
	}
}

func (node *Node) PendingJobs() int {
	return node.jobs.Size()
}

// MineAll mines every queued job in order and writes each mined message to
// out as one line of trytes. It stops early, leaving the rest queued, when
// ctx is cancelled.
func (node *Node) MineAll(ctx context.Context, minWeightMagnitude int, out io.Writer) (_mined int, _err error) {
	mined := 0
	for !node.jobs.Empty() {
		if ctx.Err() != nil {
			glog.Infof("Node.MineAll: Cancelled with %d jobs left", node.jobs.Size())
			return mined, nil
		}
		job := node.jobs.First().(*MineJob)

		timeStart := time.Now()
		found, err := node.Miner.Search(ctx, job.Trits, minWeightMagnitude)
		if err != nil {
			return mined, errors.Wrapf(err, "Node.MineAll: Problem mining %s", job.Source)
		}
		if !found {
			glog.Infof("Node.MineAll: Cancelled while mining %s", job.Source)
			return mined, nil
		}
		node.jobs.Shift()

		trytes, err := encoding.TritsToTrytes(job.Trits)
		if err != nil {
			return mined, errors.Wrapf(err, "Node.MineAll: Problem encoding %s", job.Source)
		}
		if _, err := fmt.Fprintln(out, trytes); err != nil {
			return mined, errors.Wrapf(err, "Node.MineAll: Problem writing %s", job.Source)
		}
		mined++
		glog.Infof(lib.CLog(lib.Cyan, fmt.Sprintf("Node.MineAll: Mined %s in %v", job.Source, time.Since(timeStart))))
		glog.V(2).Infof("Node.MineAll: Mined job: %s", spew.Sdump(job))
	}
	return mined, nil
}

// FindChecksum finds a balanced checksum for message and returns it as
// trytes. It returns an empty string if ctx was cancelled first.
func (node *Node) FindChecksum(ctx context.Context, message []encoding.Trit, checksumLength int,
	sumLength int) (string, error) {

	if checksumLength%encoding.TritsPerTryte != 0 {
		return "", errors.Wrapf(lib.MinerErrorInvalidChecksumLength,
			"Node.FindChecksum: %d is not a whole number of trytes", checksumLength)
	}

	timeStart := time.Now()
	checksum, found, err := node.Miner.FindChecksum(ctx, message, checksumLength, sumLength)
	if err != nil {
		return "", errors.Wrapf(err, "Node.FindChecksum: ")
	}
	if !found {
		glog.Infof("Node.FindChecksum: Cancelled")
		return "", nil
	}
	glog.Infof(lib.CLog(lib.Cyan, fmt.Sprintf("Node.FindChecksum: Found a %d trit checksum in %v",
		len(checksum), time.Since(timeStart))))

	trytes, err := encoding.TritsToTrytes(checksum)
	if err != nil {
		return "", errors.Wrapf(err, "Node.FindChecksum: ")
	}
	return trytes, nil
}
