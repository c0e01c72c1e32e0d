package cmd

import (
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/deso-protocol/ternpow/lib"
	"github.com/golang/glog"
	"github.com/spf13/viper"
)

type Config struct {
	// Mining
	NumMiningThreads   int
	MidStateCacheSize  int
	MinWeightMagnitude int

	// Checksum
	ChecksumLength int
	SumLength      int

	// Input
	Trytes    string
	InputFile string

	// Metrics and profiling
	StatsdAddress   string
	DatadogProfiler bool

	// Logging
	LogDirectory string
	GlogV        uint64
	GlogVmodule  string
}

func LoadConfig() *Config {
	config := Config{}

	// Mining
	config.NumMiningThreads = viper.GetInt("num-mining-threads")
	config.MidStateCacheSize = viper.GetInt("mid-state-cache-size")
	config.MinWeightMagnitude = viper.GetInt("min-weight-magnitude")

	// Checksum
	config.ChecksumLength = viper.GetInt("checksum-length")
	config.SumLength = viper.GetInt("sum-length")

	// Input
	config.Trytes = viper.GetString("trytes")
	config.InputFile = viper.GetString("input-file")

	// Metrics and profiling
	config.StatsdAddress = viper.GetString("statsd-address")
	if config.StatsdAddress == "" && os.Getenv("DD_AGENT_HOST") != "" {
		config.StatsdAddress = os.Getenv("DD_AGENT_HOST") + ":8125"
	}
	config.DatadogProfiler = viper.GetBool("datadog-profiler")

	// Logging
	config.LogDirectory = viper.GetString("log-dir")
	if config.LogDirectory == "" {
		config.LogDirectory = lib.GetLogDir()
	} else {
		config.LogDirectory = filepath.Clean(config.LogDirectory)
		if err := os.MkdirAll(config.LogDirectory, os.ModePerm); err != nil {
			glog.Fatalf("Could not create log directory (%s): %v", config.LogDirectory, err)
		}
	}
	config.GlogV = viper.GetUint64("glog-v")
	config.GlogVmodule = viper.GetString("glog-vmodule")

	return &config
}

func (config *Config) Print() {
	glog.Infof("Logging to directory %s", config.LogDirectory)
	glog.Infof("Mining threads: %d", lib.GetThreadCount(config.NumMiningThreads))

	if config.MidStateCacheSize > 0 {
		glog.Infof("Mid-state cache: %d prefixes", config.MidStateCacheSize)
	} else {
		glog.Infof("Mid-state cache: OFF")
	}

	if config.StatsdAddress != "" {
		glog.Infof("Statsd: %s", config.StatsdAddress)
	}

	if config.DatadogProfiler {
		glog.Infof(lib.CLog(lib.Yellow, "DataDog profiler: ON"))
	}

	glog.V(2).Infof("Config: %s", spew.Sdump(config))
}
