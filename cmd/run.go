package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/deso-protocol/ternpow/lib"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// runWithNode starts a node from the current configuration, runs fn with a
// context that is cancelled on SIGINT or SIGTERM, and stops the node after.
func runWithNode(cmd *cobra.Command, fn func(ctx context.Context, node *Node) error) error {
	// Parse the configuration (can use CLI flags, environment variables, or config file)
	config := LoadConfig()

	node := NewNode(config)
	if err := node.Start(); err != nil {
		return err
	}
	defer func() {
		node.Stop()
		glog.Info("Shutdown complete")
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, node)
}

func SetupRunFlags(cmd *cobra.Command) {
	// Mining
	cmd.PersistentFlags().Int("num-mining-threads", 0,
		"How many goroutines to search on. When zero or negative, one per "+
			"available core is used, leaving one core free.")
	cmd.PersistentFlags().Int("mid-state-cache-size", lib.DefaultMidStateCacheSize,
		"How many absorbed transaction prefixes to keep around. Mining the same "+
			"transaction again with only its nonce changed skips re-absorbing the "+
			"prefix. Set to zero to disable.")

	// Input
	cmd.PersistentFlags().String("trytes", "", "The message to work on, as trytes.")
	cmd.PersistentFlags().String("input-file", "",
		"A file with one message per line, as trytes. Blank lines and lines "+
			"starting with # are skipped.")

	// Metrics and profiling
	cmd.PersistentFlags().String("statsd-address", "",
		"host:port of a statsd agent to report hash rate and search counts to. "+
			"When unset, $DD_AGENT_HOST:8125 is used if DD_AGENT_HOST is set, and "+
			"nothing is reported otherwise.")
	cmd.PersistentFlags().Bool("datadog-profiler", false, "Enable the DataDog profiler for performance testing")

	// Logging
	cmd.PersistentFlags().String("log-dir", "",
		"The directory for logs. When unset, a logs folder in the system's "+
			"configuration directory is used.")
	cmd.PersistentFlags().Uint64("glog-v", 0, "The log level. 0 = INFO, 1 = DEBUG, 2 = TRACE. Defaults to zero")
	cmd.PersistentFlags().String("glog-vmodule", "", "The syntax of the argument is a comma-separated list of pattern=N, where pattern is a literal file name (minus the \".go\" suffix) or \"glob\" pattern and N is a V level. For instance, -vmodule=gopher*=3 sets the V level to 3 in all Go files whose names begin \"gopher\".")

	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flag)
	})
}
