package facts

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
	"github.com/andrescamacho/blockflow-go/internal/domain/logistics"
	"github.com/andrescamacho/blockflow-go/internal/domain/production"
)

type positionDef struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type unitDef struct {
	ID       string         `json:"id" yaml:"id"`
	Machine  string         `json:"machine" yaml:"machine"`
	Recipe   *string        `json:"recipe" yaml:"recipe"`
	Modules  map[string]int `json:"modules,omitempty" yaml:"modules,omitempty"`
	Position positionDef    `json:"position" yaml:"position"`
}

type boilerGroupDef struct {
	Machine string `json:"machine" yaml:"machine"`
	Count   int    `json:"count" yaml:"count"`
}

type blockDef struct {
	ID             string              `json:"id,omitempty" yaml:"id,omitempty"`
	Position       positionDef         `json:"position" yaml:"position"`
	Units          []unitDef           `json:"units" yaml:"units"`
	Boilers        []boilerGroupDef    `json:"boilers,omitempty" yaml:"boilers,omitempty"`
	Stations       []logistics.Station `json:"stations,omitempty" yaml:"stations,omitempty"`
	Items          map[string]float64  `json:"items,omitempty" yaml:"items,omitempty"`
	Fluids         map[string]float64  `json:"fluids,omitempty" yaml:"fluids,omitempty"`
	Resources      map[string]float64  `json:"resources,omitempty" yaml:"resources,omitempty"`
	Tags           []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Classification map[string]string   `json:"classification,omitempty" yaml:"classification,omitempty"`
}

type blocksFile struct {
	Blocks []blockDef `json:"blocks" yaml:"blocks"`
}

// FileBlockSource reads block facts from a JSON or YAML file. The file is
// re-read when its content changes, so a watcher can pick up new facts.
type FileBlockSource struct {
	path string

	mu     sync.Mutex
	digest string
	blocks []block.Block
}

// NewFileBlockSource creates a source for path
func NewFileBlockSource(path string) *FileBlockSource {
	return &FileBlockSource{path: path}
}

// Path returns the watched file
func (s *FileBlockSource) Path() string {
	return s.path
}

// Digest returns the sha256 of the last loaded content
func (s *FileBlockSource) Digest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digest
}

// Blocks implements block.Source
func (s *FileBlockSource) Blocks(ctx context.Context) ([]block.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var file blocksFile
	digest, err := decodeFile(s.path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if digest == s.digest && s.blocks != nil {
		return s.blocks, nil
	}

	blocks := make([]block.Block, 0, len(file.Blocks))
	seen := make(map[string]bool, len(file.Blocks))
	for _, def := range file.Blocks {
		b, err := def.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("%s: duplicate block id %s", s.path, b.ID)
		}
		seen[b.ID] = true
		blocks = append(blocks, b)
	}

	s.digest = digest
	s.blocks = blocks
	return blocks, nil
}

func (d blockDef) toDomain() (block.Block, error) {
	pos := production.Position{X: d.Position.X, Y: d.Position.Y}
	id := d.ID
	if id == "" {
		id = block.IDForPosition(pos)
	}

	classification, err := colon.ParseClassification(d.Classification)
	if err != nil {
		return block.Block{}, fmt.Errorf("block %s: %w", id, err)
	}

	b := block.Block{
		ID:             id,
		Position:       pos,
		Stations:       d.Stations,
		Items:          d.Items,
		Fluids:         d.Fluids,
		Resources:      d.Resources,
		Tags:           d.Tags,
		Classification: classification,
	}
	for i, u := range d.Units {
		unitID := u.ID
		if unitID == "" {
			unitID = fmt.Sprintf("%s#%d", id, i)
		}
		unit := production.CraftingUnit{
			ID:       unitID,
			BlockID:  id,
			Machine:  u.Machine,
			Modules:  u.Modules,
			Position: production.Position{X: u.Position.X, Y: u.Position.Y},
		}
		if u.Recipe != nil {
			unit.Recipe = *u.Recipe
		}
		b.Units = append(b.Units, unit)
	}
	for _, g := range d.Boilers {
		b.Boilers = append(b.Boilers, production.Boiler{Machine: g.Machine, Count: g.Count})
	}
	return b, nil
}
