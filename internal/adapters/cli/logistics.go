package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
)

type stationView struct {
	Block   string      `json:"block" yaml:"block"`
	Station string      `json:"station" yaml:"station"`
	Summary summaryView `json:"summary" yaml:"summary"`
}

type logisticsView struct {
	Stations  []stationView          `json:"stations" yaml:"stations"`
	Blocks    map[string]summaryView `json:"blocks" yaml:"blocks"`
	Shortages map[string][]string    `json:"shortages" yaml:"shortages"`
}

// NewLogisticsCommand creates the logistics command
func NewLogisticsCommand() *cobra.Command {
	var blockID string
	var shortagesOnly bool

	cmd := &cobra.Command{
		Use:   "logistics",
		Short: "Compare train station stock with provider thresholds and requests",
		Long: `Summarize every logistics station: provided ids against the minimum
transfer size, requested ids against their request amount, and stock nobody
provides or requests. A ratio below 1 marks a shortage.

Examples:
  blockflow logistics
  blockflow logistics --block 0,0
  blockflow logistics --shortages -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{facts: true})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.med.Send(a.context(cmd.Context()), &queries.LogisticsSummaryQuery{BlockID: blockID})
			if err != nil {
				return err
			}
			view := newLogisticsView(resp.(*queries.LogisticsSummaryResponse))
			if shortagesOnly {
				return render(cmd.OutOrStdout(), view.Shortages, func(w io.Writer) { writeShortages(w, view.Shortages) })
			}
			return render(cmd.OutOrStdout(), view, func(w io.Writer) {
				for _, st := range view.Stations {
					fmt.Fprintf(w, "Station %s (block %s)\n", st.Station, st.Block)
					st.Summary.writeText(w, "  ")
				}
				writeShortages(w, view.Shortages)
			})
		},
	}

	cmd.Flags().StringVar(&blockID, "block", "", "Only summarize one block")
	cmd.Flags().BoolVar(&shortagesOnly, "shortages", false, "Only list ids below their expected amount")

	return cmd
}

func newLogisticsView(r *queries.LogisticsSummaryResponse) logisticsView {
	v := logisticsView{
		Blocks:    make(map[string]summaryView, len(r.Blocks)),
		Shortages: make(map[string][]string, len(r.Shortages)),
	}
	for _, st := range r.Stations {
		v.Stations = append(v.Stations, stationView{Block: st.BlockID, Station: st.Station, Summary: newSummaryView(st.Summary)})
	}
	for id, s := range r.Blocks {
		v.Blocks[id] = newSummaryView(s)
	}
	for id, ids := range r.Shortages {
		v.Shortages[id] = idStrings(ids)
	}
	return v
}

func writeShortages(w io.Writer, shortages map[string][]string) {
	if len(shortages) == 0 {
		fmt.Fprintln(w, "No shortages")
		return
	}
	fmt.Fprintln(w, "Shortages:")
	for _, blockID := range sortedKeys(shortages) {
		fmt.Fprintf(w, "  %-12s %v\n", blockID, shortages[blockID])
	}
}
