package block

import (
	"time"

	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// Solution is a recorded analysis of one block
type Solution struct {
	RunID        string
	BlockID      string
	Fingerprint  uint64
	Score        float64
	Trials       int
	Truncated    bool
	Wanted       []colon.ID
	Exports      []colon.ID
	NetRate      map[colon.ID]float64
	Efficiencies []float64
	CreatedAt    time.Time
}
