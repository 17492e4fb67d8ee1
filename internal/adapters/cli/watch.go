package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/adapters/watch"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/pidfile"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var record bool
	var classify []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyze the network whenever fact files change",
		Long: `Watch the catalog, blocks and telemetry files and re-run the network
analysis after they change. Bursts of writes are debounced and runs are rate
limited (watch.debounce, watch.max_rate, watch.burst). Only one watcher runs
per pid file.

Examples:
  blockflow watch
  blockflow watch --record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{facts: true, history: record})
			if err != nil {
				return err
			}
			defer a.Close()

			pf := pidfile.New(a.cfg.Watch.PIDFile)
			if err := pf.Acquire(); err != nil {
				return err
			}
			defer pf.Release()

			overrides, err := parseClassifyFlags(classify, true)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(a.context(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			catalogFile, _ := filepath.Abs(a.cfg.Facts.Catalog)
			reanalyze := func(ctx context.Context, changed []string) error {
				for _, path := range changed {
					if path == catalogFile {
						if err := a.loadFacts(); err != nil {
							return err
						}
						if err := a.wire(); err != nil {
							return err
						}
						break
					}
				}
				resp, err := a.med.Send(ctx, &queries.AnalyzeNetworkQuery{Classification: overrides})
				if err != nil {
					return err
				}
				reports := resp.(*queries.AnalyzeNetworkResponse).Reports
				if record {
					if err := recordReports(ctx, a, "watch", reports, cmd.ErrOrStderr()); err != nil {
						return err
					}
				}
				return printReports(out, reports)
			}

			w, err := watch.NewFactWatcher(
				[]string{a.cfg.Facts.Catalog, a.cfg.Facts.Blocks, a.cfg.Facts.Telemetry},
				reanalyze,
				watch.Options{Debounce: a.cfg.Watch.Debounce, MaxRate: a.cfg.Watch.MaxRate, Burst: a.cfg.Watch.Burst},
			)
			if err != nil {
				return err
			}

			// analyze once so the first report does not wait for a change
			if err := reanalyze(ctx, nil); err != nil {
				a.logger.Log("ERROR", "Initial analysis failed", map[string]interface{}{"error": err.Error()})
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Watching fact files, press Ctrl+C to stop")
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "Store every run in the solution history")
	cmd.Flags().StringArrayVar(&classify, "classify", nil, "Classification override kind:name=intent (repeatable)")

	return cmd
}
