package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/logging"
	"github.com/mesh-intelligence/stockroom/internal/lowstock"
	"github.com/mesh-intelligence/stockroom/internal/report"
	"github.com/mesh-intelligence/stockroom/internal/scheduler"
	"github.com/mesh-intelligence/stockroom/internal/ui"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func newScheduleCmd(a *app) *cobra.Command {
	var (
		spec string
		out  string
		once bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Export and check the inventory on a cron schedule",
		Long: "Schedule keeps the database open and, on every tick of the cron\n" +
			"expression, exports the report and logs the low-stock records. It runs\n" +
			"until interrupted. Other stockroom commands cannot open the database\n" +
			"while it runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				spec = a.settings.schedule
			}
			if out == "" {
				out = a.settings.defaultExportPath()
			}
			return a.withStore(cmd, func(store types.Store) error {
				s := scheduler.NewScheduler(scheduler.Config{
					Spec:       spec,
					ExportPath: out,
					Threshold:  a.settings.threshold,
				}, store, report.NewExporter(a.settings.delimiter), logging.Named(a.logger, "scheduler"))
				s.OnLow = func(res lowstock.Result) {
					fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderWarn(res.Warning()))
				}

				if once {
					_, err := s.RunOnce()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
					return nil
				}

				if err := s.Start(); err != nil {
					return userError("%w", err)
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %q, writing %s. Press Ctrl+C to stop.\n", spec, out)
				<-ctx.Done()
				s.Stop()
				a.logger.Info("schedule stopped", zap.String("spec", spec))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "cron expression (default from config: 0 20 * * *)")
	cmd.Flags().StringVar(&out, "out", "", "report path (default from config: reporte.csv)")
	cmd.Flags().BoolVar(&once, "once", false, "run one tick and exit")
	return cmd
}
