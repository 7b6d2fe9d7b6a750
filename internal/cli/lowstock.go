package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func newLowStockCmd(a *app) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "lowstock",
		Short: "List records below the low-stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.settings.threshold
			}
			a.skipOpenWarning = true

			return a.withStore(cmd, func(store types.Store) error {
				records, err := store.GetAll()
				if err != nil {
					return err
				}
				res := lowstock.Partition(records, threshold)
				if a.flags.jsonMode {
					below := res.Below
					if below == nil {
						below = []types.Record{}
					}
					return printJSON(cmd, below)
				}
				if !res.HasLow() {
					fmt.Fprintf(cmd.OutOrStdout(), "No records below %d.\n", threshold)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Warning())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", lowstock.DefaultThreshold, "quantity below which a record is low")
	return cmd
}
