package cli

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
)

type reachView struct {
	Rounds      int               `json:"rounds" yaml:"rounds"`
	Converged   bool              `json:"converged" yaml:"converged"`
	CanMake     []string          `json:"can_make" yaml:"can_make"`
	Recipes     map[string]string `json:"recipes" yaml:"recipes"`
	Colons      map[string]string `json:"colons" yaml:"colons"`
	Unreachable []string          `json:"unreachable" yaml:"unreachable"`
}

type treeView struct {
	Colon    string     `json:"colon" yaml:"colon"`
	Made     bool       `json:"made" yaml:"made"`
	Recipe   string     `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Cost     string     `json:"cost" yaml:"cost"`
	Cycle    bool       `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Children []treeView `json:"children,omitempty" yaml:"children,omitempty"`
}

func newTreeView(n *reachability.Node) treeView {
	v := treeView{Colon: n.Colon.String(), Made: n.Made, Recipe: n.Recipe, Cost: costString(n.Cost), Cycle: n.Cycle}
	for _, c := range n.Children {
		v.Children = append(v.Children, newTreeView(c))
	}
	return v
}

// NewReachCommand creates the reach command
func NewReachCommand() *cobra.Command {
	var (
		ignoreTech bool
		tree       string
		depth      int
		colors     bool
	)

	cmd := &cobra.Command{
		Use:   "reach",
		Short: "Show how far each recipe is from what the factory already makes",
		Long: `Walk the recipe graph from the ids the factory has produced or consumed
and report, per recipe, how many missing ingredient steps separate it from
the current production. Recipes locked behind unresearched technologies are
left out unless --ignore-tech is given.

Examples:
  blockflow reach
  blockflow reach --tree item:advanced-circuit --depth 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{facts: true})
			if err != nil {
				return err
			}
			defer a.Close()
			if a.telemetry == nil {
				return fmt.Errorf("reach needs production telemetry: set facts.telemetry or pass --telemetry")
			}

			resp, err := a.med.Send(a.context(cmd.Context()), &queries.ReachabilityQuery{IgnoreTechnologies: ignoreTech})
			if err != nil {
				return err
			}
			reach := resp.(*queries.ReachabilityResponse)

			if tree != "" {
				root, err := colon.Parse(tree)
				if err != nil {
					return err
				}
				node := reachability.BuildTree(root, a.catalog.Catalog, reach.CanMake, reach.Making, reach.Result, depth)
				f := NewTreeFormatter(colors)
				return render(cmd.OutOrStdout(), newTreeView(node), func(w io.Writer) {
					fmt.Fprint(w, f.FormatTree(node))
					fmt.Fprintln(w, f.FormatTreeSummary(node))
				})
			}

			view := newReachView(reach)
			return render(cmd.OutOrStdout(), view, func(w io.Writer) {
				status := "converged"
				if !view.Converged {
					status = "stopped at round cap"
				}
				fmt.Fprintf(w, "Reachability: %d rounds, %s\n", view.Rounds, status)
				fmt.Fprintf(w, "Already made: %d ids\n", len(view.CanMake))
				fmt.Fprintln(w, "\nRecipes:")
				for _, name := range sortedKeys(view.Recipes) {
					fmt.Fprintf(w, "  %-40s %s\n", name, view.Recipes[name])
				}
				fmt.Fprintln(w, "\nIds:")
				for _, id := range sortedKeys(view.Colons) {
					fmt.Fprintf(w, "  %-40s %s\n", id, view.Colons[id])
				}
			})
		},
	}

	cmd.Flags().BoolVar(&ignoreTech, "ignore-tech", false, "Walk every recipe regardless of research")
	cmd.Flags().StringVar(&tree, "tree", "", "Print the dependency tree of one id (kind:name)")
	cmd.Flags().IntVar(&depth, "depth", reachability.DefaultTreeDepth, "Maximum tree depth")
	cmd.Flags().BoolVar(&colors, "color", false, "Colorize tree output")

	return cmd
}

func newReachView(r *queries.ReachabilityResponse) reachView {
	v := reachView{
		Rounds:    r.Result.Rounds,
		Converged: r.Result.Converged,
		CanMake:   idStrings(r.CanMake.Sorted()),
		Recipes:   make(map[string]string, len(r.Result.Costs)),
		Colons:    make(map[string]string, len(r.ColonCosts)),
	}
	for id, cost := range r.ColonCosts {
		v.Colons[id.String()] = costString(cost)
	}
	for name, cost := range r.Result.Costs {
		v.Recipes[name] = costString(cost)
		if math.IsInf(cost, 1) {
			v.Unreachable = append(v.Unreachable, name)
		}
	}
	sort.Strings(v.Unreachable)
	return v
}
