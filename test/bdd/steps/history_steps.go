package steps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/blockflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/test/helpers"
)

type historyContext struct {
	repo *persistence.GormSolutionRepository
	now  time.Time
}

func (hc *historyContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	hc.repo = persistence.NewGormSolutionRepository(helpers.SharedTestDB)
	hc.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return nil
}

// InitializeHistoryScenario registers solution history steps backed by the
// shared test database
func InitializeHistoryScenario(sc *godog.ScenarioContext) {
	hc := &historyContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, hc.reset()
	})

	sc.Step(`^a recorded run "([^"]*)" covering (\d+) blocks$`, hc.aRecordedRun)
	sc.Step(`^a recorded run "([^"]*)" covering (\d+) blocks with fingerprint (\d+)$`, hc.aRecordedRunWithFingerprint)

	sc.Step(`^the history should list (\d+) solutions$`, hc.theHistoryShouldList)
	sc.Step(`^run "([^"]*)" should count (\d+) blocks$`, hc.runShouldCountBlocks)
	sc.Step(`^block "([^"]*)" should have (\d+) solutions$`, hc.blockShouldHaveSolutions)
	sc.Step(`^the newest solution of block "([^"]*)" should belong to run "([^"]*)"$`, hc.newestSolutionShouldBelongTo)
	sc.Step(`^the newest solution of block "([^"]*)" should have fingerprint (\d+)$`, hc.newestSolutionShouldHaveFingerprint)
}

func (hc *historyContext) aRecordedRun(runID string, blocks int) error {
	return hc.record(runID, blocks, 42)
}

func (hc *historyContext) aRecordedRunWithFingerprint(runID string, blocks int, fingerprint string) error {
	fp, err := strconv.ParseUint(fingerprint, 10, 64)
	if err != nil {
		return err
	}
	return hc.record(runID, blocks, fp)
}

func (hc *historyContext) record(runID string, blocks int, fingerprint uint64) error {
	plate := colon.Item("plate")
	hc.now = hc.now.Add(time.Minute)
	for i := 0; i < blocks; i++ {
		err := hc.repo.Save(context.Background(), &block.Solution{
			RunID:        runID,
			BlockID:      fmt.Sprintf("%d,0", i),
			Fingerprint:  fingerprint,
			Score:        1.5,
			Trials:       100,
			Exports:      []colon.ID{plate},
			NetRate:      map[colon.ID]float64{plate: 1.5},
			Efficiencies: []float64{1},
			CreatedAt:    hc.now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (hc *historyContext) theHistoryShouldList(n int) error {
	solutions, err := hc.repo.List(context.Background(), 0)
	if err != nil {
		return err
	}
	if len(solutions) != n {
		return fmt.Errorf("expected %d solutions, got %d", n, len(solutions))
	}
	return nil
}

func (hc *historyContext) runShouldCountBlocks(runID string, n int) error {
	count, err := hc.repo.RunBlockCount(context.Background(), runID)
	if err != nil {
		return err
	}
	if count != n {
		return fmt.Errorf("expected run %s to count %d blocks, got %d", runID, n, count)
	}
	return nil
}

func (hc *historyContext) blockShouldHaveSolutions(blockID string, n int) error {
	solutions, err := hc.repo.ListByBlock(context.Background(), blockID, 0)
	if err != nil {
		return err
	}
	if len(solutions) != n {
		return fmt.Errorf("expected block %s to have %d solutions, got %d", blockID, n, len(solutions))
	}
	return nil
}

func (hc *historyContext) newest(blockID string) (*block.Solution, error) {
	solutions, err := hc.repo.ListByBlock(context.Background(), blockID, 1)
	if err != nil {
		return nil, err
	}
	if len(solutions) == 0 {
		return nil, fmt.Errorf("block %s has no solutions", blockID)
	}
	return solutions[0], nil
}

func (hc *historyContext) newestSolutionShouldBelongTo(blockID, runID string) error {
	s, err := hc.newest(blockID)
	if err != nil {
		return err
	}
	if s.RunID != runID {
		return fmt.Errorf("expected newest solution of %s to belong to %s, got %s", blockID, runID, s.RunID)
	}
	return nil
}

func (hc *historyContext) newestSolutionShouldHaveFingerprint(blockID, fingerprint string) error {
	fp, err := strconv.ParseUint(fingerprint, 10, 64)
	if err != nil {
		return err
	}
	s, err := hc.newest(blockID)
	if err != nil {
		return err
	}
	if s.Fingerprint != fp {
		return fmt.Errorf("expected fingerprint %d, got %d", fp, s.Fingerprint)
	}
	return nil
}
