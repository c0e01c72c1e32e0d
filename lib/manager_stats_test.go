package lib

import (
	"testing"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/deso-protocol/go-deadlock"
	"github.com/stretchr/testify/require"
)

type recordingStatsdClient struct {
	*statsd.NoOpClient

	mtx    deadlock.Mutex
	gauges map[string]float64
}

func (client *recordingStatsdClient) Gauge(name string, value float64, tags []string, rate float64) error {
	client.mtx.Lock()
	defer client.mtx.Unlock()
	client.gauges[name] = value
	return nil
}

func (client *recordingStatsdClient) get(name string) (float64, bool) {
	client.mtx.Lock()
	defer client.mtx.Unlock()
	value, exists := client.gauges[name]
	return value, exists
}

func TestMinerStatsNilIsSafe(t *testing.T) {
	require := require.New(t)

	var stats *MinerStats
	stats.AddHashes(64)
	stats.recordOutcome(SearchStateCompleted)
	require.Equal(MinerStatsSnapshot{}, stats.Snapshot())
}

func TestMinerStatsRecordOutcome(t *testing.T) {
	require := require.New(t)

	stats := NewMinerStats()
	stats.AddHashes(64)
	stats.AddHashes(128)
	stats.recordOutcome(SearchStateCompleted)
	stats.recordOutcome(SearchStateCancelled)
	stats.recordOutcome(SearchStateCancelled)
	stats.recordOutcome(SearchStateFailed)

	require.Equal(MinerStatsSnapshot{
		Hashes:        192,
		Searches:      4,
		Solutions:     1,
		Cancellations: 2,
		Failures:      1,
	}, stats.Snapshot())
}

func TestStatsManagerReports(t *testing.T) {
	require := require.New(t)

	stats := NewMinerStats()
	stats.AddHashes(640)
	stats.recordOutcome(SearchStateCompleted)

	client := &recordingStatsdClient{
		NoOpClient: &statsd.NoOpClient{},
		gauges:     make(map[string]float64),
	}
	stam := NewStatsManager(stats, client, 5*time.Millisecond)
	require.Equal(client, stam.GetStatsdClient())
	stam.Start()
	defer stam.Stop()

	require.Eventually(func() bool {
		hashes, exists := client.get("MINER.HASHES")
		return exists && hashes == 640
	}, time.Second, time.Millisecond)
	solutions, _ := client.get("MINER.SOLUTIONS")
	require.Equal(float64(1), solutions)
	_, exists := client.get("MINER.HASH_RATE")
	require.True(exists)
}

func TestStatsManagerHashRate(t *testing.T) {
	require := require.New(t)

	stats := NewMinerStats()
	client := &recordingStatsdClient{
		NoOpClient: &statsd.NoOpClient{},
		gauges:     make(map[string]float64),
	}
	stam := NewStatsManager(stats, client, time.Hour)
	start := time.Now()
	stam.lastReport = start

	stats.AddHashes(1000)
	stam.report(start.Add(2 * time.Second))
	hashRate, _ := client.get("MINER.HASH_RATE")
	require.Equal(float64(500), hashRate)

	stats.AddHashes(300)
	stam.report(start.Add(5 * time.Second))
	hashRate, _ = client.get("MINER.HASH_RATE")
	require.Equal(float64(100), hashRate)
}

func TestStatsManagerWithoutClient(t *testing.T) {
	stam := NewStatsManager(NewMinerStats(), nil, time.Millisecond)
	stam.Start()
	stam.Stop()
}
