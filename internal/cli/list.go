package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/internal/ui"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		asc    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Long: "List prints the inventory, newest record first. --search keeps the\n" +
			"records where the text appears in any column, ignoring case. Records\n" +
			"below the low-stock threshold are highlighted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				records, err := store.List(types.ListOptions{Search: search, Descending: !asc})
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					if records == nil {
						records = []types.Record{}
					}
					return printJSON(cmd, records)
				}
				low := lowstock.Partition(records, a.settings.threshold)
				ui.PrintRecordTable(cmd.OutOrStdout(), records, low.IsLow)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text to match in any column")
	cmd.Flags().BoolVar(&asc, "asc", false, "oldest record first")
	return cmd
}
