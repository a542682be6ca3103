package cmd

import (
	"os"

	"github.com/joeydtaylor/steeze-edge/pkg/core"
	"github.com/joeydtaylor/steeze-edge/pkg/manifest"
	"github.com/joeydtaylor/steeze-edge/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	opts       = serverfx.DefaultOptions()
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "steeze-edge",
	Short:         "Edge authentication gate",
	Long:          `steeze-edge verifies identity-provider tokens on viewer requests and redirects unauthenticated callers to the hosted login.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $EDGE_CONFIG, then ./edge.toml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cliLogger().Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return serverfx.ConfigPath(opts)
}

func loadConfig() (manifest.Config, error) {
	return core.LoadConfig(resolvedConfigPath())
}

// cliLogger writes to stderr so stdout stays machine-readable.
func cliLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
