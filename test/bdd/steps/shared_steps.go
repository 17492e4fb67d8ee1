package steps

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/recipe"
)

// Shared state across contexts
// The recipe table is declared once per feature and read by several contexts
var sharedCatalog *recipe.Catalog

// InitializeSharedSteps registers steps used by more than one feature
func InitializeSharedSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sharedCatalog = nil
		return ctx, nil
	})

	sc.Step(`^the recipes:$`, theRecipes)
}

func theRecipes(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}

	recipes := make([]recipe.Recipe, 0, len(rows))
	for _, row := range rows {
		energy, err := strconv.ParseFloat(row["energy"], 64)
		if err != nil {
			return fmt.Errorf("recipe %s: invalid energy: %w", row["name"], err)
		}
		ingredients, err := parseAmounts(row["ingredients"])
		if err != nil {
			return fmt.Errorf("recipe %s: %w", row["name"], err)
		}
		products, err := parseAmounts(row["products"])
		if err != nil {
			return fmt.Errorf("recipe %s: %w", row["name"], err)
		}

		r := recipe.Recipe{Name: row["name"], Energy: energy}
		for id, amount := range ingredients {
			r.Ingredients = append(r.Ingredients, recipe.Ingredient{Colon: id, Amount: amount})
		}
		for id, amount := range products {
			r.Products = append(r.Products, recipe.Product{Colon: id, Amount: recipe.Amount(amount)})
		}
		sortRecipe(&r)
		recipes = append(recipes, r)
	}

	catalog, err := recipe.NewCatalog(recipes)
	if err != nil {
		return err
	}
	sharedCatalog = catalog
	return nil
}

// sortRecipe orders amounts by id so map iteration does not leak into flows
func sortRecipe(r *recipe.Recipe) {
	sort.Slice(r.Ingredients, func(i, j int) bool { return colon.Less(r.Ingredients[i].Colon, r.Ingredients[j].Colon) })
	sort.Slice(r.Products, func(i, j int) bool { return colon.Less(r.Products[i].Colon, r.Products[j].Colon) })
}

// parseAmounts reads "kind:name=amount,kind:name=amount"
func parseAmounts(raw string) (map[colon.ID]float64, error) {
	out := make(map[colon.ID]float64)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		idStr, amountStr, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("invalid amount %q", part)
		}
		id, err := colon.Parse(idStr)
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", part, err)
		}
		out[id] += amount
	}
	return out, nil
}

// parseColonList reads "kind:name,kind:name"
func parseColonList(raw string) ([]colon.ID, error) {
	var ids []colon.ID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := colon.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// tableRows maps each data row by the header cells
func tableRows(table *godog.Table) ([]map[string]string, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	header := table.Rows[0]
	rows := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		rows = append(rows, rowValues(header, row))
	}
	return rows, nil
}

func rowValues(header, row *messages.PickleTableRow) map[string]string {
	m := make(map[string]string, len(header.Cells))
	for i, cell := range row.Cells {
		if i < len(header.Cells) {
			m[header.Cells[i].Value] = strings.TrimSpace(cell.Value)
		}
	}
	return m
}

func idsString(ids []colon.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func withinDelta(actual, expected, delta float64) error {
	if diff := actual - expected; diff > delta || diff < -delta {
		return fmt.Errorf("expected %g within %g of %g", actual, delta, expected)
	}
	return nil
}
