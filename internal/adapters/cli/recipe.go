package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/queries"
)

type amountView struct {
	Colon  string  `json:"colon" yaml:"colon"`
	Amount float64 `json:"amount" yaml:"amount"`
}

type recipeView struct {
	Name        string       `json:"name" yaml:"name"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	Energy      float64      `json:"energy" yaml:"energy"`
	Synthesized bool         `json:"synthesized" yaml:"synthesized"`
	Banned      bool         `json:"banned" yaml:"banned"`
	Ingredients []amountView `json:"ingredients" yaml:"ingredients"`
	Products    []amountView `json:"products" yaml:"products"`
}

// NewRecipeCommand creates the recipe command
func NewRecipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe <name>",
		Short: "Show a declared or synthesized recipe",
		Long: `Resolve a recipe name against the catalog. Barrel fill and empty
recipes and void recipes are synthesized on demand.

Examples:
  blockflow recipe iron-gear-wheel
  blockflow recipe fill-water-barrel -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appNeeds{facts: true})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.med.Send(a.context(cmd.Context()), &queries.GetRecipeQuery{Name: args[0]})
			if err != nil {
				return err
			}
			r := resp.(*queries.GetRecipeResponse)

			view := recipeView{
				Name:        r.Recipe.Name,
				Category:    r.Recipe.Category,
				Energy:      r.Recipe.Duration(),
				Synthesized: r.Synthesized,
				Banned:      r.Banned,
			}
			for _, ing := range r.Recipe.Ingredients {
				view.Ingredients = append(view.Ingredients, amountView{Colon: ing.Colon.String(), Amount: ing.Amount})
			}
			for _, p := range r.Recipe.Products {
				view.Products = append(view.Products, amountView{Colon: p.Colon.String(), Amount: p.Quantity()})
			}

			return render(cmd.OutOrStdout(), view, func(w io.Writer) {
				kind := "declared"
				if view.Synthesized {
					kind = "synthesized"
				}
				fmt.Fprintf(w, "Recipe %s (%s)\n", view.Name, kind)
				if view.Banned {
					fmt.Fprintln(w, "  Excluded from reachability")
				}
				fmt.Fprintf(w, "  Energy: %gs\n", view.Energy)
				fmt.Fprintln(w, "  Ingredients:")
				for _, ing := range view.Ingredients {
					fmt.Fprintf(w, "    %g x %s\n", ing.Amount, ing.Colon)
				}
				fmt.Fprintln(w, "  Products:")
				for _, p := range view.Products {
					fmt.Fprintf(w, "    %g x %s\n", p.Amount, p.Colon)
				}
			})
		},
	}
	return cmd
}
