package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func newSeedCmd(a *app) *cobra.Command {
	var restore bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample inventory",
		Long: "Seed adds the built-in sample records to the inventory. With --restore\n" +
			"every existing record is deleted first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				var result sqlite.BatchResult
				if restore {
					var err error
					if result, err = sqlite.RestoreDefaults(store); err != nil {
						return err
					}
				} else {
					result = sqlite.Seed(store, sqlite.DefaultRecords())
				}
				for _, e := range result.Failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", e)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample record(s)\n", len(result.Inserted))
				if len(result.Failed) > 0 {
					return sysError("%d sample record(s) not loaded", len(result.Failed))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "delete all records before loading")
	return cmd
}
