package cmd

import (
	"os"

	"github.com/joeydtaylor/steeze-edge/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "start"},
	Short:   "Run the gate as an HTTP server",
	RunE: func(_ *cobra.Command, _ []string) error {
		if configPath != "" {
			if err := os.Setenv(opts.ConfigEnv, configPath); err != nil {
				return err
			}
		}
		app := fx.New(serverfx.Module(opts))
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
