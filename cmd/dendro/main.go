package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/tree"
)

const envPrefix = "DENDRO"

type rootCmdConfig struct {
	configFile string
	v          *viper.Viper
	logger     *zap.Logger
	// trees, when set, stores trees by name instead of a Redis server
	trees tree.Store[dataset.Sample]
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	return newCLIParser(&rootCmdConfig{})
}

func newCLIParser(config *rootCmdConfig) *cobra.Command {
	config.v = viper.New()
	config.logger = zap.NewNop()
	rootCmd := &cobra.Command{
		Use:   "dendro",
		Short: "dendro is a tool to grow decision trees",
		Long:  `A tool to grow decision trees from your data, test them, and use them to make predictions`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = config.logger.Sync()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to STDERR")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML file with values for any of the flags, keyed by flag name")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), treeCmd(config), datasetCmd(config))
	return rootCmd
}

/*
load binds the flags of the command being run to the configuration, reads
the configuration file if one was given and builds the logger. Flags set on
the command line take precedence over DENDRO_* environment variables, which
take precedence over the configuration file.
*/
func (rcc *rootCmdConfig) load(cmd *cobra.Command) error {
	rcc.v.SetEnvPrefix(envPrefix)
	rcc.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	rcc.v.AutomaticEnv()
	if rcc.configFile != "" {
		rcc.v.SetConfigFile(rcc.configFile)
		rcc.v.SetConfigType("yaml")
		if err := rcc.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", rcc.configFile, err)
		}
	}
	if err := rcc.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	rcc.logger = newLogger(rcc.v.GetBool("verbose"), cmd.ErrOrStderr())
	return nil
}

func (rcc *rootCmdConfig) requireString(name string) (string, error) {
	s := rcc.v.GetString(name)
	if s == "" {
		return "", fmt.Errorf("required %s flag was not set", name)
	}
	return s, nil
}
