package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/joeydtaylor/steeze-edge/pkg/serverfx"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Fetch and list the configured signing keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := cliLogger()

		cache, closeStore, err := serverfx.NewCache(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.InvocationTimeout())
		defer cancel()
		set, err := cache.Get(ctx, cfg.JWKSURL())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KID\tKTY\tALG\tUSE\tUSABLE")
		for _, k := range set.Keys {
			_, perr := k.PublicKey()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", k.KeyID, k.KeyType, k.Algorithm, k.Use, perr == nil)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
