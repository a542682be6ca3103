package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joeydtaylor/steeze-edge/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var eventFile string

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Run one gate invocation on a viewer-request event",
	Long: `Reads a viewer-request event (the full Records envelope or a bare request)
from --file or stdin and prints the forwarded request or the redirect response.
Exits non-zero when the signing keys cannot be fetched or parsed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var in io.Reader = cmd.InOrStdin()
		if eventFile != "" && eventFile != "-" {
			f, err := os.Open(eventFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		event, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := cliLogger()
		defer func() { _ = log.Sync() }()

		cache, closeStore, err := serverfx.NewCache(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		gate, err := serverfx.NewGate(cfg, cache, log)
		if err != nil {
			return err
		}

		out, d, err := gate.HandleEvent(context.Background(), event)
		if err != nil {
			return err
		}
		log.Debug("decision", zap.String("action", d.Action.String()), zap.String("reason", d.Reason))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	invokeCmd.Flags().StringVarP(&eventFile, "file", "f", "", "event file (default stdin)")
	rootCmd.AddCommand(invokeCmd)
}
