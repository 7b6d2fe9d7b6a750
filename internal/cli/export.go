package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/report"
	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// delimiterFlag returns the --delimiter value, or the configured one when
// the flag is unset.
func (a *app) delimiterFlag(cmd *cobra.Command, value string) (rune, error) {
	if !cmd.Flags().Changed("delimiter") {
		return a.settings.delimiter, nil
	}
	d, err := report.ParseDelimiter(value)
	if err != nil {
		return 0, userError("%w", err)
	}
	return d, nil
}

func newExportCmd(a *app) *cobra.Command {
	var delimiter string
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the inventory to a CSV report",
		Long: "Export writes every record to a CSV report, replacing the file if it\n" +
			"exists. Without a path the configured export_path is used, relative to\n" +
			"the data directory (default: reporte.csv).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.delimiterFlag(cmd, delimiter)
			if err != nil {
				return err
			}
			path := a.settings.defaultExportPath()
			if len(args) == 1 {
				path = args[0]
			}
			return a.withStore(cmd, func(store types.Store) error {
				records, err := store.GetAll()
				if err != nil {
					return err
				}
				if err := report.NewExporter(d).Export(records, path); err != nil {
					return sysError("%w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", len(records), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter (default from config: ;)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var delimiter string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add the records of a CSV report to the inventory",
		Long: "Import reads a report in the export format and inserts each row as a\n" +
			"new record. The ID column is ignored. Rows that cannot be read, break\n" +
			"the quantity or date rules of add, or cannot be inserted are reported;\n" +
			"the others are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.delimiterFlag(cmd, delimiter)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return userError("open %s: %w", args[0], err)
			}
			defer f.Close()

			records, parseErrs := report.ImportWith(f, d, checkInput)
			return a.withStore(cmd, func(store types.Store) error {
				result := sqlite.Seed(store, records)
				stderr := cmd.ErrOrStderr()
				for _, e := range parseErrs {
					fmt.Fprintf(stderr, "skipped: %v\n", e)
				}
				for _, e := range result.Failed {
					fmt.Fprintf(stderr, "failed: %v\n", e)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s)\n", len(result.Inserted))

				if n := len(parseErrs) + len(result.Failed); n > 0 {
					return userError("%d row(s) not imported", n)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter (default from config: ;)")
	return cmd
}
