package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deso-protocol/ternpow/lib"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	require := require.New(t)
	defer viper.Reset()

	logDir := t.TempDir()
	viper.Set("num-mining-threads", 3)
	viper.Set("mid-state-cache-size", 7)
	viper.Set("min-weight-magnitude", 9)
	viper.Set("checksum-length", 81)
	viper.Set("sum-length", 27)
	viper.Set("trytes", "ABC")
	viper.Set("statsd-address", "localhost:8125")
	viper.Set("log-dir", logDir)
	viper.Set("glog-v", 2)

	config := LoadConfig()
	require.Equal(3, config.NumMiningThreads)
	require.Equal(7, config.MidStateCacheSize)
	require.Equal(9, config.MinWeightMagnitude)
	require.Equal(81, config.ChecksumLength)
	require.Equal(27, config.SumLength)
	require.Equal("ABC", config.Trytes)
	require.Equal("localhost:8125", config.StatsdAddress)
	require.Equal(logDir, config.LogDirectory)
	require.Equal(uint64(2), config.GlogV)
	require.False(config.DatadogProfiler)
}

func TestLoadConfigStatsdFromAgentHost(t *testing.T) {
	require := require.New(t)
	defer viper.Reset()

	t.Setenv("DD_AGENT_HOST", "agent.local")
	viper.Set("log-dir", t.TempDir())
	require.Equal("agent.local:8125", LoadConfig().StatsdAddress)

	viper.Set("statsd-address", "other:9125")
	require.Equal("other:9125", LoadConfig().StatsdAddress)
}

func TestRunFlagsDefaults(t *testing.T) {
	require := require.New(t)

	flags := rootCmd.PersistentFlags()
	cacheSize, err := flags.GetInt("mid-state-cache-size")
	require.NoError(err)
	require.Equal(lib.DefaultMidStateCacheSize, cacheSize)

	sumLength, err := checksumCmd.Flags().GetInt("sum-length")
	require.NoError(err)
	require.Equal(lib.HashLength, sumLength)

	require.NotNil(mineCmd.Flags().Lookup("min-weight-magnitude"))
}

func TestReadConfigFileAndEnvironment(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "miner.yaml")
	require.NoError(os.WriteFile(path, []byte("num-mining-threads: 5\nsum-length: 81\n"), 0644))
	t.Setenv("TERNPOW_MID_STATE_CACHE_SIZE", "12")
	t.Setenv("TERNPOW_SUM_LENGTH", "54")
	// Unprefixed names are not ours.
	t.Setenv("NUM_MINING_THREADS", "9")

	config := viper.New()
	require.NoError(readConfig(config, path))
	require.Equal(path, config.ConfigFileUsed())
	require.Equal(5, config.GetInt("num-mining-threads"))
	require.Equal(12, config.GetInt("mid-state-cache-size"))
	// The environment wins over the file.
	require.Equal(54, config.GetInt("sum-length"))
}

func TestReadConfigMissingFile(t *testing.T) {
	require := require.New(t)

	err := readConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(err)
	require.Contains(err.Error(), "missing.yaml")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(os.WriteFile(bad, []byte("num-mining-threads: [\n"), 0644))
	require.Error(readConfig(viper.New(), bad))
}

func TestReadConfigDefaultLocations(t *testing.T) {
	require := require.New(t)

	disableCache := homedir.DisableCache
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = disableCache }()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	// No file in either default location is fine.
	config := viper.New()
	require.NoError(readConfig(config, ""))
	require.Empty(config.ConfigFileUsed())

	configDir := filepath.Join(home, ".ternpow")
	require.NoError(os.MkdirAll(configDir, 0755))
	require.NoError(os.WriteFile(filepath.Join(configDir, "ternpow.yaml"), []byte("min-weight-magnitude: 14\n"), 0644))

	config = viper.New()
	require.NoError(readConfig(config, ""))
	require.Equal(filepath.Join(configDir, "ternpow.yaml"), config.ConfigFileUsed())
	require.Equal(14, config.GetInt("min-weight-magnitude"))
}
