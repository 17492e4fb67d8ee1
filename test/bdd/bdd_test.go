package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/blockflow-go/test/bdd/steps"
	"github.com/andrescamacho/blockflow-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: SharedSteps registered FIRST so the recipe table step is owned by
	// one context and read by production and reachability alike
	steps.InitializeSharedSteps(sc)
	steps.InitializeProductionScenario(sc)
	steps.InitializeReachabilityScenario(sc)
	steps.InitializeLogisticsScenario(sc)
	steps.InitializeHistoryScenario(sc)
}

func TestMain(m *testing.M) {
	// Initialize shared test database for the history scenarios
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
