package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
)

type logisticsContext struct {
	stations []logistics.Station
	stacks   logistics.StackSizes
	summary  logistics.Summary
}

func (lc *logisticsContext) reset() {
	lc.stations = nil
	lc.stacks = make(logistics.StackSizes)
	lc.summary = logistics.NewSummary()
}

// InitializeLogisticsScenario registers station summary steps
func InitializeLogisticsScenario(sc *godog.ScenarioContext) {
	lc := &logisticsContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	sc.Step(`^the stack size of "([^"]*)" is (\d+)$`, lc.theStackSizeIs)
	sc.Step(`^a station "([^"]*)" holding:$`, lc.aStationHolding)
	sc.Step(`^the station requests (\d+) "([^"]*)" "([^"]*)"$`, lc.theStationRequests)
	sc.Step(`^I summarize the stations$`, lc.iSummarizeTheStations)

	sc.Step(`^"([^"]*)" should be provided with ratio ([0-9.]+)$`, lc.shouldBeProvidedWithRatio)
	sc.Step(`^"([^"]*)" should be requested with actual ([0-9.]+) and expected ([0-9.]+)$`, lc.shouldBeRequestedWith)
	sc.Step(`^"([^"]*)" should be loose$`, lc.shouldBeLoose)
	sc.Step(`^"([^"]*)" should not be loose$`, lc.shouldNotBeLoose)
	sc.Step(`^the shortages should be "([^"]*)"$`, lc.theShortagesShouldBe)
	sc.Step(`^the shortages should be empty$`, lc.theShortagesShouldBeEmpty)
	sc.Step(`^the expected amount of "([^"]*)" should not decrease as the stack threshold grows from (\d+) to (\d+)$`, lc.expectedShouldNotDecrease)
}

func (lc *logisticsContext) theStackSizeIs(name string, size int) error {
	lc.stacks[colon.Item(name)] = float64(size)
	return nil
}

func (lc *logisticsContext) aStationHolding(name string, table *godog.Table) error {
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	st := logistics.Station{Name: name}
	for _, row := range rows {
		count, err := strconv.ParseFloat(row["count"], 64)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", row["count"], err)
		}
		st.Items = append(st.Items, logistics.Signal{Type: row["type"], Name: row["name"], Count: count})
	}
	lc.stations = append(lc.stations, st)
	return nil
}

func (lc *logisticsContext) currentStation() (*logistics.Station, error) {
	if len(lc.stations) == 0 {
		return nil, fmt.Errorf("no station declared")
	}
	return &lc.stations[len(lc.stations)-1], nil
}

func (lc *logisticsContext) theStationRequests(amount int, kind, name string) error {
	st, err := lc.currentStation()
	if err != nil {
		return err
	}
	st.Combinator = append(st.Combinator, logistics.Signal{Type: kind, Name: name, Count: -float64(amount)})
	return nil
}

func (lc *logisticsContext) iSummarizeTheStations() error {
	lc.summary = logistics.Summarize(lc.stations, lc.stacks)
	return nil
}

func (lc *logisticsContext) shouldBeProvidedWithRatio(idStr string, ratio float64) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	r, ok := lc.summary.Provides[id]
	if !ok {
		return fmt.Errorf("%s is not provided", id)
	}
	return withinDelta(r.Value(), ratio, 1e-9)
}

func (lc *logisticsContext) shouldBeRequestedWith(idStr string, actual, expected float64) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	r, ok := lc.summary.Requests[id]
	if !ok {
		return fmt.Errorf("%s is not requested", id)
	}
	if r.Actual != actual || r.Expected != expected {
		return fmt.Errorf("expected %s request %g/%g, got %g/%g", id, actual, expected, r.Actual, r.Expected)
	}
	return nil
}

func (lc *logisticsContext) shouldBeLoose(idStr string) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	if _, ok := lc.summary.Looses[id]; !ok {
		return fmt.Errorf("%s is not loose", id)
	}
	return nil
}

func (lc *logisticsContext) shouldNotBeLoose(idStr string) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	if _, ok := lc.summary.Looses[id]; ok {
		return fmt.Errorf("%s should not be loose", id)
	}
	return nil
}

func (lc *logisticsContext) theShortagesShouldBe(expected string) error {
	if got := idsString(lc.summary.Shortages()); got != expected {
		return fmt.Errorf("expected shortages %q, got %q", expected, got)
	}
	return nil
}

func (lc *logisticsContext) theShortagesShouldBeEmpty() error {
	if short := lc.summary.Shortages(); len(short) > 0 {
		return fmt.Errorf("expected no shortages, got %s", idsString(short))
	}
	return nil
}

func (lc *logisticsContext) expectedShouldNotDecrease(idStr string, from, to int) error {
	id, err := colon.Parse(idStr)
	if err != nil {
		return err
	}
	st, err := lc.currentStation()
	if err != nil {
		return err
	}

	previous := -1.0
	for th := from; th <= to; th++ {
		settings := []logistics.Signal{{Type: logistics.SignalVirtual, Name: logistics.SignalStackThreshold, Count: float64(th)}}
		probe := *st
		probe.Settings = settings
		summary := logistics.SummarizeStation(probe, lc.stacks)
		r, ok := summary.Provides[id]
		if !ok {
			return fmt.Errorf("%s is not provided", id)
		}
		if r.Expected < previous {
			return fmt.Errorf("expected amount dropped from %g to %g at stack threshold %d", previous, r.Expected, th)
		}
		previous = r.Expected
	}
	return nil
}
