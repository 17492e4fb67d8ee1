package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/reachability"
)

type reachabilityContext struct {
	stats  reachability.ProductionStats
	techs  []reachability.Technology
	walker *reachability.Walker
	result reachability.Result
	tree   *reachability.Node
}

func (rc *reachabilityContext) reset() {
	rc.stats = make(reachability.ProductionStats)
	rc.techs = nil
	rc.walker = nil
	rc.result = reachability.Result{}
	rc.tree = nil
}

// InitializeReachabilityScenario registers recipe graph walk steps
func InitializeReachabilityScenario(sc *godog.ScenarioContext) {
	rc := &reachabilityContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	sc.Step(`^the factory has made "([^"]*)"$`, rc.theFactoryHasMade)
	sc.Step(`^technology "([^"]*)" unlocks "([^"]*)" and is not researched$`, rc.technologyUnlocksUnresearched)
	sc.Step(`^I walk the recipe graph$`, rc.iWalkTheRecipeGraph)
	sc.Step(`^I build the dependency tree of "([^"]*)"$`, rc.iBuildTheDependencyTree)

	sc.Step(`^the walk should converge$`, rc.theWalkShouldConverge)
	sc.Step(`^recipe "([^"]*)" should cost (\d+)$`, rc.recipeShouldCost)
	sc.Step(`^recipe "([^"]*)" should be unreachable$`, rc.recipeShouldBeUnreachable)
	sc.Step(`^recipe "([^"]*)" should not be walked$`, rc.recipeShouldNotBeWalked)
	sc.Step(`^the tree should have (\d+) nodes$`, rc.theTreeShouldHaveNodes)
	sc.Step(`^the tree should report "([^"]*)" as made$`, rc.theTreeShouldReportMade)
}

func (rc *reachabilityContext) theFactoryHasMade(list string) error {
	ids, err := parseColonList(list)
	if err != nil {
		return err
	}
	for _, id := range ids {
		rc.stats[id] = reachability.Stat{InputTotal: 1, OutputTotal: 1}
	}
	return nil
}

func (rc *reachabilityContext) technologyUnlocksUnresearched(name, recipeName string) error {
	rc.techs = append(rc.techs, reachability.Technology{Name: name, Unlocks: []string{recipeName}})
	return nil
}

func (rc *reachabilityContext) walk() (colon.Set, map[colon.ID][]string, error) {
	if sharedCatalog == nil {
		return nil, nil, fmt.Errorf("no recipes declared")
	}
	rc.walker = reachability.NewWalker(sharedCatalog, reachability.WithTechnologies(rc.techs))
	canMake := reachability.HaveMade(rc.stats)
	making := rc.walker.BuildMaking()
	rc.result = rc.walker.BuildMissingIngredients(canMake, making)
	return canMake, making, nil
}

func (rc *reachabilityContext) iWalkTheRecipeGraph() error {
	_, _, err := rc.walk()
	return err
}

func (rc *reachabilityContext) iBuildTheDependencyTree(idStr string) error {
	root, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	canMake, making, err := rc.walk()
	if err != nil {
		return err
	}
	rc.tree = reachability.BuildTree(root, sharedCatalog, canMake, making, rc.result, 0)
	return nil
}

func (rc *reachabilityContext) theWalkShouldConverge() error {
	if !rc.result.Converged {
		return fmt.Errorf("walk stopped after %d rounds without converging", rc.result.Rounds)
	}
	return nil
}

func (rc *reachabilityContext) recipeShouldCost(name string, cost int) error {
	if got := rc.result.Cost(name); got != float64(cost) {
		return fmt.Errorf("expected recipe %s to cost %d, got %g", name, cost, got)
	}
	return nil
}

func (rc *reachabilityContext) recipeShouldBeUnreachable(name string) error {
	if got := rc.result.Cost(name); !math.IsInf(got, 1) {
		return fmt.Errorf("expected recipe %s to be unreachable, got cost %g", name, got)
	}
	return nil
}

func (rc *reachabilityContext) recipeShouldNotBeWalked(name string) error {
	if _, ok := rc.result.Costs[name]; ok {
		return fmt.Errorf("recipe %s was walked", name)
	}
	if rc.walker.Available(name) {
		return fmt.Errorf("recipe %s is still available", name)
	}
	return nil
}

func (rc *reachabilityContext) theTreeShouldHaveNodes(n int) error {
	if got := rc.tree.CountNodes(); got != n {
		return fmt.Errorf("expected %d nodes, got %d", n, got)
	}
	return nil
}

func (rc *reachabilityContext) theTreeShouldReportMade(idStr string) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	var found bool
	var walk func(*reachability.Node) error
	walk = func(n *reachability.Node) error {
		if n.Colon == id {
			found = true
			if !n.Made {
				return fmt.Errorf("%s is not marked made", id)
			}
		}
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rc.tree); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s is not in the tree", id)
	}
	return nil
}
