package lib

import (
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/deso-protocol/ternpow/collections/repeated_task"
	"github.com/golang/glog"
)

// MinerStats counts what the miner has done since startup. A nil *MinerStats
// is valid and discards everything.
type MinerStats struct {
	hashes        atomic.Uint64
	searches      atomic.Uint64
	solutions     atomic.Uint64
	cancellations atomic.Uint64
	failures      atomic.Uint64
}

func NewMinerStats() *MinerStats {
	return &MinerStats{}
}

func (stats *MinerStats) AddHashes(count uint64) {
	if stats == nil {
		return
	}
	stats.hashes.Add(count)
}

// recordOutcome tallies one finished search.
func (stats *MinerStats) recordOutcome(state SearchState) {
	if stats == nil {
		return
	}
	stats.searches.Add(1)
	switch state {
	case SearchStateCompleted:
		stats.solutions.Add(1)
	case SearchStateCancelled:
		stats.cancellations.Add(1)
	case SearchStateFailed:
		stats.failures.Add(1)
	}
}

type MinerStatsSnapshot struct {
	Hashes        uint64
	Searches      uint64
	Solutions     uint64
	Cancellations uint64
	Failures      uint64
}

func (stats *MinerStats) Snapshot() MinerStatsSnapshot {
	if stats == nil {
		return MinerStatsSnapshot{}
	}
	return MinerStatsSnapshot{
		Hashes:        stats.hashes.Load(),
		Searches:      stats.searches.Load(),
		Solutions:     stats.solutions.Load(),
		Cancellations: stats.cancellations.Load(),
		Failures:      stats.failures.Load(),
	}
}

// StatsManager periodically pushes MinerStats to statsd. Counters are sent
// as gauges of their running totals, plus a hash rate over the last period.
type StatsManager struct {
	stats        *MinerStats
	statsdClient statsd.ClientInterface
	reporter     *repeated_task.RepeatedTask

	lastHashes uint64
	lastReport time.Time
}

func NewStatsManager(stats *MinerStats, statsdClient statsd.ClientInterface, interval time.Duration) *StatsManager {
	stam := &StatsManager{
		stats:        stats,
		statsdClient: statsdClient,
	}
	stam.reporter = repeated_task.NewRepeatedTask(func(exitChan <-chan struct{}) bool {
		stam.report(time.Now())
		return false
	}, interval, interval)
	return stam
}

func (stam *StatsManager) Start() {
	if stam.statsdClient == nil {
		return
	}
	stam.lastReport = time.Now()
	stam.reporter.Start()
}

func (stam *StatsManager) Stop() {
	if stam.reporter.Stop() {
		glog.Warningf("StatsManager.Stop: Reporter did not exit in time")
	}
}

func (stam *StatsManager) GetStatsdClient() statsd.ClientInterface {
	return stam.statsdClient
}

func (stam *StatsManager) report(now time.Time) {
	tags := []string{}
	snapshot := stam.stats.Snapshot()

	stam.statsdClient.Gauge("MINER.HASHES", float64(snapshot.Hashes), tags, 1)
	stam.statsdClient.Gauge("MINER.SEARCHES", float64(snapshot.Searches), tags, 1)
	stam.statsdClient.Gauge("MINER.SOLUTIONS", float64(snapshot.Solutions), tags, 1)
	stam.statsdClient.Gauge("MINER.CANCELLATIONS", float64(snapshot.Cancellations), tags, 1)
	stam.statsdClient.Gauge("MINER.FAILURES", float64(snapshot.Failures), tags, 1)

	elapsed := now.Sub(stam.lastReport).Seconds()
	if elapsed > 0 {
		hashRate := float64(snapshot.Hashes-stam.lastHashes) / elapsed
		stam.statsdClient.Gauge("MINER.HASH_RATE", hashRate, tags, 1)
	}
	stam.lastHashes = snapshot.Hashes
	stam.lastReport = now
}
