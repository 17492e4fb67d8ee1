package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var blockID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded solutions, newest first",
		Long: `List solutions stored by 'blockflow analyze --record' or 'blockflow watch'.

Examples:
  blockflow history
  blockflow history --block 0,0 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{history: true})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.med.Send(a.context(cmd.Context()), &queries.ListSolutionsQuery{BlockID: blockID, Limit: limit})
			if err != nil {
				return err
			}
			views := newSolutionViews(resp.(*queries.ListSolutionsResponse).Solutions)

			return render(cmd.OutOrStdout(), views, func(w io.Writer) {
				if len(views) == 0 {
					fmt.Fprintln(w, "No recorded solutions")
					return
				}
				fmt.Fprintf(w, "%-20s %-10s %-12s %10s %7s  %s\n", "CREATED", "BLOCK", "SCORE", "TRIALS", "TRUNC", "RUN")
				for _, v := range views {
					fmt.Fprintf(w, "%-20s %-10s %-12.4f %10d %7v  %s\n", v.CreatedAt, v.Block, v.Score, v.Trials, v.Truncated, v.RunID)
				}
			})
		},
	}

	cmd.Flags().StringVar(&blockID, "block", "", "Only list one block")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of solutions")

	return cmd
}
