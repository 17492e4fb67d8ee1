package services

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/efficiency"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

// Fingerprint hashes everything a report is built from. Any change to the
// block id, the merged actions (flows, counts, recipes and unit ids), the
// classification or the solver settings yields a different key.
func Fingerprint(blockID string, actions []production.Action, classification colon.Classification, opts efficiency.Options) uint64 {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.WriteString("\x00")
	}

	write(blockID)
	for _, a := range actions {
		write(a.Flow.Key())
		write(strconv.Itoa(a.Count))
		write(a.Recipe)
		write(strings.Join(a.UnitIDs, "\x01"))
	}

	ids := make([]colon.ID, 0, len(classification))
	for id := range classification {
		ids = append(ids, id)
	}
	colon.SortIDs(ids)
	for _, id := range ids {
		write(id.String() + "=" + string(classification[id]))
	}

	write(strconv.FormatUint(opts.Seed, 10))
	write(strconv.Itoa(opts.Trials))
	write(strconv.Itoa(opts.Iterations))
	write(strconv.FormatFloat(opts.Step, 'g', -1, 64))
	return d.Sum64()
}
