package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = "ternpow"
	envPrefix  = "TERNPOW"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ternpow",
	Short: "Ternary proof-of-work miner",
	Long: `Mines nonces for ternary transactions and finds balanced checksums for
ternary messages.

Every flag can also be set in a config file or in the environment. Without
--config, ternpow.yaml is read from ~/.ternpow or the working directory if
present. Environment variables take the TERNPOW_ prefix with dashes replaced
by underscores, so --num-mining-threads becomes TERNPOW_NUM_MINING_THREADS.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ternpow.yaml in $HOME/.ternpow or the working directory)")
	SetupRunFlags(rootCmd)
}

func initConfig() {
	cobra.CheckErr(readConfig(viper.GetViper(), cfgFile))
}

// readConfig points config at the environment and at a config file. A file
// named with --config must be readable. The default locations may hold no
// file at all.
func readConfig(config *viper.Viper, path string) error {
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	if path != "" {
		config.SetConfigFile(path)
		if err := config.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "readConfig: Problem reading config file %s", path)
		}
		fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())
		return nil
	}

	home, err := homedir.Expand("~/." + configName)
	if err != nil {
		return errors.Wrapf(err, "readConfig: Problem finding home directory")
	}
	config.AddConfigPath(home)
	config.AddConfigPath(".")
	config.SetConfigName(configName)

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrapf(err, "readConfig: Problem reading default config file")
	}
	fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())
	return nil
}
