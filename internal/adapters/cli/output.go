package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/blockflow-go/internal/application/analysis/services"
	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
)

// render writes v as JSON or YAML, or calls text for the human format
func render(w io.Writer, v interface{}, text func(io.Writer)) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

// costString prints +Inf as "unreachable"
func costString(c float64) string {
	if math.IsInf(c, 1) {
		return "unreachable"
	}
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func idStrings(ids []colon.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

type actionView struct {
	Recipe     string   `json:"recipe" yaml:"recipe"`
	Count      int      `json:"count" yaml:"count"`
	Efficiency float64  `json:"efficiency" yaml:"efficiency"`
	Units      []string `json:"units,omitempty" yaml:"units,omitempty"`
}

type rateView struct {
	Colon string  `json:"colon" yaml:"colon"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

type reportView struct {
	Block       string       `json:"block" yaml:"block"`
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Score       float64      `json:"score" yaml:"score"`
	Trials      int          `json:"trials" yaml:"trials"`
	Truncated   bool         `json:"truncated" yaml:"truncated"`
	CacheHit    bool         `json:"cache_hit" yaml:"cache_hit"`
	Actions     []actionView `json:"actions" yaml:"actions"`
	NetRate     []rateView   `json:"net_rate" yaml:"net_rate"`
	Wanted      []string     `json:"wanted" yaml:"wanted"`
	Exports     []string     `json:"exports" yaml:"exports"`
	Unresolved  []string     `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

func newReportView(r *services.BlockReport) reportView {
	v := reportView{
		Block:       r.BlockID,
		Fingerprint: strconv.FormatUint(r.Fingerprint, 16),
		Score:       r.Score,
		Trials:      r.Trials,
		Truncated:   r.Truncated,
		CacheHit:    r.CacheHit,
		Wanted:      idStrings(r.Wanted),
		Exports:     idStrings(r.Exports),
		Unresolved:  r.Unresolved,
	}
	for i, a := range r.Actions {
		e := 0.0
		if i < len(r.Efficiencies) {
			e = r.Efficiencies[i]
		}
		v.Actions = append(v.Actions, actionView{Recipe: a.Recipe, Count: a.Count, Efficiency: e, Units: a.UnitIDs})
	}
	for _, id := range r.NetRate.Colons() {
		v.NetRate = append(v.NetRate, rateView{Colon: id.String(), Rate: r.NetRate[id]})
	}
	return v
}

func (v reportView) writeText(w io.Writer) {
	status := ""
	if v.Truncated {
		status = " (truncated)"
	}
	if v.CacheHit {
		status += " (cached)"
	}
	fmt.Fprintf(w, "Block %s%s\n", v.Block, status)
	fmt.Fprintf(w, "  Score:   %.4f after %d trials\n", v.Score, v.Trials)
	fmt.Fprintln(w, "  Actions:")
	for _, a := range v.Actions {
		fmt.Fprintf(w, "    %-36s x%-4d %6.1f%%\n", a.Recipe, a.Count, a.Efficiency*100)
	}
	fmt.Fprintln(w, "  Net rate (/s):")
	for _, r := range v.NetRate {
		fmt.Fprintf(w, "    %-36s %+10.4f\n", r.Colon, r.Rate)
	}
	fmt.Fprintf(w, "  Wanted:  %v\n", v.Wanted)
	fmt.Fprintf(w, "  Exports: %v\n", v.Exports)
	if len(v.Unresolved) > 0 {
		fmt.Fprintf(w, "  Unresolved recipes: %v\n", v.Unresolved)
	}
}

type ratioView struct {
	Colon    string  `json:"colon" yaml:"colon"`
	Actual   float64 `json:"actual" yaml:"actual"`
	Expected float64 `json:"expected" yaml:"expected"`
	Ratio    float64 `json:"ratio" yaml:"ratio"`
}

type summaryView struct {
	Provides []ratioView `json:"provides" yaml:"provides"`
	Looses   []ratioView `json:"looses" yaml:"looses"`
	Requests []ratioView `json:"requests" yaml:"requests"`
}

func ratioViews(m map[colon.ID]logistics.Ratio) []ratioView {
	ids := make([]colon.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	colon.SortIDs(ids)
	out := make([]ratioView, 0, len(ids))
	for _, id := range ids {
		r := m[id]
		out = append(out, ratioView{Colon: id.String(), Actual: r.Actual, Expected: r.Expected, Ratio: r.Value()})
	}
	return out
}

func newSummaryView(s logistics.Summary) summaryView {
	return summaryView{
		Provides: ratioViews(s.Provides),
		Looses:   ratioViews(s.Looses),
		Requests: ratioViews(s.Requests),
	}
}

func (v summaryView) writeText(w io.Writer, indent string) {
	section := func(name string, rows []ratioView) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(w, "%s%s:\n", indent, name)
		for _, r := range rows {
			marker := ""
			if r.Ratio < 1 {
				marker = "  <- short"
			}
			fmt.Fprintf(w, "%s  %-36s %10.1f / %-10.1f %6.2f%s\n", indent, r.Colon, r.Actual, r.Expected, r.Ratio, marker)
		}
	}
	section("Provides", v.Provides)
	section("Requests", v.Requests)
	section("Loose", v.Looses)
}

type solutionView struct {
	RunID       string   `json:"run_id" yaml:"run_id"`
	Block       string   `json:"block" yaml:"block"`
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Score       float64  `json:"score" yaml:"score"`
	Trials      int      `json:"trials" yaml:"trials"`
	Truncated   bool     `json:"truncated" yaml:"truncated"`
	Wanted      []string `json:"wanted" yaml:"wanted"`
	Exports     []string `json:"exports" yaml:"exports"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
}

func newSolutionViews(solutions []*block.Solution) []solutionView {
	out := make([]solutionView, 0, len(solutions))
	for _, s := range solutions {
		out = append(out, solutionView{
			RunID:       s.RunID,
			Block:       s.BlockID,
			Fingerprint: strconv.FormatUint(s.Fingerprint, 16),
			Score:       s.Score,
			Trials:      s.Trials,
			Truncated:   s.Truncated,
			Wanted:      idStrings(s.Wanted),
			Exports:     idStrings(s.Exports),
			CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
