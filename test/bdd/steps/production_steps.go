package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

type productionContext struct {
	units          []production.CraftingUnit
	raw            []production.Action
	merged         []production.Action
	wanted         colon.Set
	exports        colon.Set
	classification colon.Classification
	seed           uint64
	trials         int
	result         efficiency.Result
	previous       *efficiency.Result
	net            production.FlowVector
}

func (pc *productionContext) reset() {
	pc.units = nil
	pc.raw = nil
	pc.merged = nil
	pc.wanted = nil
	pc.exports = nil
	pc.classification = nil
	pc.seed = 0
	pc.trials = 0
	pc.result = efficiency.Result{}
	pc.previous = nil
	pc.net = nil
}

// InitializeProductionScenario registers action building, merging and
// efficiency solving steps
func InitializeProductionScenario(sc *godog.ScenarioContext) {
	pc := &productionContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	sc.Step(`^crafting units:$`, pc.craftingUnits)
	sc.Step(`^(\d+) "([^"]*)" units running "([^"]*)"$`, pc.identicalUnits)
	sc.Step(`^the block classification:$`, pc.theBlockClassification)

	sc.Step(`^I build and merge the actions$`, pc.iBuildAndMergeTheActions)
	sc.Step(`^I compute the recipe difference$`, pc.iComputeTheRecipeDifference)
	sc.Step(`^I solve the block with seed (\d+) and (\d+) trials$`, pc.iSolveTheBlock)
	sc.Step(`^I solve the block again with the same seed$`, pc.iSolveTheBlockAgain)

	sc.Step(`^there should be (\d+) merged actions$`, pc.thereShouldBeMergedActions)
	sc.Step(`^merged action (\d+) should have count (\d+)$`, pc.mergedActionShouldHaveCount)
	sc.Step(`^the merged aggregate should equal the raw aggregate at efficiency ([0-9.]+)$`, pc.mergedAggregateShouldEqualRaw)
	sc.Step(`^every action should have an empty flow$`, pc.everyActionShouldHaveAnEmptyFlow)
	sc.Step(`^the wanted ids should be "([^"]*)"$`, pc.theWantedIDsShouldBe)
	sc.Step(`^the exported ids should be "([^"]*)"$`, pc.theExportedIDsShouldBe)
	sc.Step(`^the wanted and exported ids should not overlap$`, pc.wantedAndExportedShouldNotOverlap)
	sc.Step(`^every efficiency should be within \[0, 1\]$`, pc.everyEfficiencyShouldBeWithinBounds)
	sc.Step(`^the net rate of "([^"]*)" should be within ([0-9.]+) of ([0-9.-]+)$`, pc.netRateShouldBeWithin)
	sc.Step(`^efficiency (\d+) should be within ([0-9.]+) of ([0-9.]+)$`, pc.efficiencyShouldBeWithin)
	sc.Step(`^both solves should agree$`, pc.bothSolvesShouldAgree)
}

func (pc *productionContext) builder() (*production.ActionBuilder, error) {
	if sharedCatalog == nil {
		return nil, fmt.Errorf("no recipes declared")
	}
	return production.NewActionBuilder(sharedCatalog, nil), nil
}

func (pc *productionContext) craftingUnits(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		pc.units = append(pc.units, production.CraftingUnit{
			ID:      row["id"],
			BlockID: "0,0",
			Machine: row["machine"],
			Recipe:  row["recipe"],
		})
	}
	return nil
}

func (pc *productionContext) identicalUnits(count int, machine, recipeName string) error {
	for i := 0; i < count; i++ {
		pc.units = append(pc.units, production.CraftingUnit{
			ID:      fmt.Sprintf("u%d", i),
			BlockID: "0,0",
			Machine: machine,
			Recipe:  recipeName,
		})
	}
	return nil
}

func (pc *productionContext) theBlockClassification(table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	raw := make(map[string]string, len(rows))
	for _, row := range rows {
		raw[row["colon"]] = row["intent"]
	}
	pc.classification, err = colon.ParseClassification(raw)
	return err
}

func (pc *productionContext) iBuildAndMergeTheActions() error {
	b, err := pc.builder()
	if err != nil {
		return err
	}
	pc.raw = b.BuildAll(pc.units, nil)
	pc.merged = production.Merge(pc.raw)
	return nil
}

func (pc *productionContext) iComputeTheRecipeDifference() error {
	if err := pc.iBuildAndMergeTheActions(); err != nil {
		return err
	}
	pc.wanted, pc.exports = production.RecipeDifference(pc.merged)
	return nil
}

func (pc *productionContext) iSolveTheBlock(seed, trials int) error {
	if err := pc.iBuildAndMergeTheActions(); err != nil {
		return err
	}
	pc.seed = uint64(seed)
	pc.trials = trials
	return pc.solve()
}

func (pc *productionContext) iSolveTheBlockAgain() error {
	first := pc.result
	pc.previous = &first
	return pc.solve()
}

func (pc *productionContext) solve() error {
	b := block.Block{ID: "0,0", Units: pc.units}
	classification := block.DefaultClassification(b, pc.merged).Merge(pc.classification)
	obj := efficiency.BuildObjective(pc.merged, classification)

	solver := efficiency.NewSolver(efficiency.Options{Trials: pc.trials, Seed: pc.seed}, nil)
	pc.result = solver.Solve(context.Background(), obj)
	pc.net = production.Aggregate(pc.merged, pc.result.Efficiencies)
	return nil
}

func (pc *productionContext) thereShouldBeMergedActions(n int) error {
	if len(pc.merged) != n {
		return fmt.Errorf("expected %d merged actions, got %d", n, len(pc.merged))
	}
	return nil
}

func (pc *productionContext) mergedActionShouldHaveCount(index, count int) error {
	if index < 1 || index > len(pc.merged) {
		return fmt.Errorf("no merged action %d", index)
	}
	if got := pc.merged[index-1].Count; got != count {
		return fmt.Errorf("expected merged action %d to have count %d, got %d", index, count, got)
	}
	return nil
}

func (pc *productionContext) mergedAggregateShouldEqualRaw(e float64) error {
	rawEff := make([]float64, len(pc.raw))
	for i := range rawEff {
		rawEff[i] = e
	}
	mergedEff := make([]float64, len(pc.merged))
	for i := range mergedEff {
		mergedEff[i] = e
	}

	fromRaw := production.Aggregate(pc.raw, rawEff)
	fromMerged := production.Aggregate(pc.merged, mergedEff)
	if len(fromRaw) != len(fromMerged) {
		return fmt.Errorf("raw aggregate has %d ids, merged has %d", len(fromRaw), len(fromMerged))
	}
	for id, rate := range fromRaw {
		if err := withinDelta(fromMerged[id], rate, 1e-9); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}

func (pc *productionContext) everyActionShouldHaveAnEmptyFlow() error {
	for _, a := range pc.merged {
		if !a.Flow.IsEmpty() {
			return fmt.Errorf("action %q has flow %v", a.Recipe, a.Flow)
		}
		if a.Resolved {
			return fmt.Errorf("action %q should be unresolved", a.Recipe)
		}
	}
	return nil
}

func (pc *productionContext) theWantedIDsShouldBe(expected string) error {
	if got := idsString(pc.wanted.Sorted()); got != expected {
		return fmt.Errorf("expected wanted %q, got %q", expected, got)
	}
	return nil
}

func (pc *productionContext) theExportedIDsShouldBe(expected string) error {
	if got := idsString(pc.exports.Sorted()); got != expected {
		return fmt.Errorf("expected exports %q, got %q", expected, got)
	}
	return nil
}

func (pc *productionContext) wantedAndExportedShouldNotOverlap() error {
	if overlap := pc.wanted.Intersect(pc.exports); len(overlap) > 0 {
		return fmt.Errorf("wanted and exports overlap on %s", idsString(overlap.Sorted()))
	}
	return nil
}

func (pc *productionContext) everyEfficiencyShouldBeWithinBounds() error {
	for i, e := range pc.result.Efficiencies {
		if e < 0 || e > 1 {
			return fmt.Errorf("efficiency %d is %g", i+1, e)
		}
	}
	return nil
}

func (pc *productionContext) netRateShouldBeWithin(idStr, deltaStr, expectedStr string) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	delta, err := strconv.ParseFloat(deltaStr, 64)
	if err != nil {
		return err
	}
	expected, err := strconv.ParseFloat(expectedStr, 64)
	if err != nil {
		return err
	}
	return withinDelta(pc.net[id], expected, delta)
}

func (pc *productionContext) efficiencyShouldBeWithin(index int, delta, expected float64) error {
	if index < 1 || index > len(pc.result.Efficiencies) {
		return fmt.Errorf("no efficiency %d", index)
	}
	return withinDelta(pc.result.Efficiencies[index-1], expected, delta)
}

func (pc *productionContext) bothSolvesShouldAgree() error {
	if pc.previous == nil {
		return fmt.Errorf("only one solve ran")
	}
	if pc.previous.Score != pc.result.Score {
		return fmt.Errorf("scores differ: %g vs %g", pc.previous.Score, pc.result.Score)
	}
	for i := range pc.result.Efficiencies {
		if pc.previous.Efficiencies[i] != pc.result.Efficiencies[i] {
			return fmt.Errorf("efficiency %d differs: %g vs %g", i+1, pc.previous.Efficiencies[i], pc.result.Efficiencies[i])
		}
	}
	return nil
}
