package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/commands"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

type analyzeFlags struct {
	all         bool
	record      bool
	classify    []string
	seed        uint64
	trials      int
	budget      time.Duration
	parallelism int
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [block-id]",
		Short: "Solve crafting efficiencies for a block or the whole network",
		Long: `Solve the efficiency of every crafting unit in a block so internal
intermediates balance, imports are consumed and exports are maximized.

Classification overrides take the form kind:name=intent where intent is one
of import, export, internal or ignore. Overrides stored with
'blockflow config set-intent' apply first.

Examples:
  blockflow analyze 0,0
  blockflow analyze 0,0 --classify item:iron-plate=export --seed 7
  blockflow analyze --all --parallelism 8 --record`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{facts: true, history: flags.record})
			if err != nil {
				return err
			}
			defer a.Close()
			if err := applySolverFlags(cmd, a, flags); err != nil {
				return err
			}

			ctx := a.context(cmd.Context())
			reports, err := runAnalysis(ctx, a, flags, args)
			if err != nil {
				return err
			}
			if flags.record {
				if err := recordReports(ctx, a, "analyze", reports, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			return printReports(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "Analyze every block")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Store the results in the solution history")
	cmd.Flags().StringArrayVar(&flags.classify, "classify", nil, "Classification override kind:name=intent (repeatable)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Solver seed overriding solver.seed (0 seeds from the clock)")
	cmd.Flags().IntVar(&flags.trials, "trials", 0, "Random restarts (0 uses the configured value)")
	cmd.Flags().DurationVar(&flags.budget, "budget", 0, "Time budget per block solve (0 uses the configured value)")
	cmd.Flags().IntVar(&flags.parallelism, "parallelism", 0, "Blocks solved concurrently with --all")

	return cmd
}

// applySolverFlags rebuilds the analyzer when solver flags override config
func applySolverFlags(cmd *cobra.Command, a *app, flags *analyzeFlags) error {
	changed := false
	if cmd.Flags().Changed("seed") {
		a.cfg.Solver.Seed = flags.seed
		changed = true
	}
	if flags.trials > 0 {
		a.cfg.Solver.Trials = flags.trials
		changed = true
	}
	if flags.budget > 0 {
		a.cfg.Solver.Budget = flags.budget
		changed = true
	}
	if !changed {
		return nil
	}
	a.analyzer = services.NewBlockAnalyzer(a.builder, a.cfg.Solver.SolverOptions(), a.cache, shared.NewRealClock())
	return a.wire()
}

func runAnalysis(ctx context.Context, a *app, flags *analyzeFlags, args []string) ([]*services.BlockReport, error) {
	overrides, err := parseClassifyFlags(flags.classify, true)
	if err != nil {
		return nil, err
	}

	if flags.all {
		resp, err := a.med.Send(ctx, &queries.AnalyzeNetworkQuery{
			Parallelism:    flags.parallelism,
			Classification: overrides,
		})
		if err != nil {
			return nil, err
		}
		network := resp.(*queries.AnalyzeNetworkResponse)
		for _, id := range network.Skipped {
			a.logger.Log("INFO", "Block skipped, no crafting units", map[string]interface{}{"block_id": id})
		}
		return network.Reports, nil
	}

	blockID, err := resolveBlockID(args)
	if err != nil {
		return nil, err
	}
	resp, err := a.med.Send(ctx, &queries.AnalyzeBlockQuery{BlockID: blockID, Classification: overrides})
	if err != nil {
		return nil, err
	}
	return []*services.BlockReport{resp.(*queries.AnalyzeBlockResponse).Report}, nil
}

func recordReports(ctx context.Context, a *app, trigger string, reports []*services.BlockReport, status io.Writer) error {
	if len(reports) == 0 {
		return nil
	}
	resp, err := a.med.Send(ctx, &commands.RecordSolutionCommand{Reports: reports, Trigger: trigger})
	if err != nil {
		return err
	}
	recorded := resp.(*commands.RecordSolutionResponse)
	fmt.Fprintf(status, "Recorded %d block(s) as run %s\n", recorded.Recorded, recorded.RunID)
	return nil
}

func printReports(w io.Writer, reports []*services.BlockReport) error {
	views := make([]reportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, newReportView(r))
	}
	return render(w, views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "No blocks with crafting units")
			return
		}
		for i, v := range views {
			if i > 0 {
				fmt.Fprintln(w)
			}
			v.writeText(w)
		}
	})
}

