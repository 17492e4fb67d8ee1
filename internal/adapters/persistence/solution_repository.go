package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/blockflow-go/internal/domain/block"
	"github.com/andrescamacho/blockflow-go/internal/domain/colon"
)

// GormSolutionRepository implements block.SolutionRepository using GORM
type GormSolutionRepository struct {
	db *gorm.DB
}

// NewGormSolutionRepository creates a new GORM solution repository
func NewGormSolutionRepository(db *gorm.DB) *GormSolutionRepository {
	return &GormSolutionRepository{db: db}
}

// Save persists a solution and bumps the block count of its run
func (r *GormSolutionRepository) Save(ctx context.Context, solution *block.Solution) error {
	model, err := r.solutionToModel(solution)
	if err != nil {
		return fmt.Errorf("failed to convert solution to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save solution: %w", err)
		}

		run := AnalysisRunModel{RunID: solution.RunID, Blocks: 1, CreatedAt: solution.CreatedAt}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"blocks": gorm.Expr("analysis_runs.blocks + 1")}),
		}).Create(&run).Error
		if err != nil {
			return fmt.Errorf("failed to update analysis run: %w", err)
		}
		return nil
	})
}

// ListByBlock returns the most recent solutions of one block, newest first
func (r *GormSolutionRepository) ListByBlock(ctx context.Context, blockID string, limit int) ([]*block.Solution, error) {
	var models []SolutionModel
	query := r.db.WithContext(ctx).Where("block_id = ?", blockID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list solutions for block %s: %w", blockID, err)
	}
	return r.modelsToSolutions(models)
}

// List returns the most recent solutions across all blocks, newest first
func (r *GormSolutionRepository) List(ctx context.Context, limit int) ([]*block.Solution, error) {
	var models []SolutionModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	return r.modelsToSolutions(models)
}

// RunBlockCount returns how many blocks a run recorded
func (r *GormSolutionRepository) RunBlockCount(ctx context.Context, runID string) (int, error) {
	var run AnalysisRunModel
	result := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return 0, fmt.Errorf("analysis run not found: %s", runID)
		}
		return 0, fmt.Errorf("failed to find analysis run: %w", result.Error)
	}
	return run.Blocks, nil
}

func (r *GormSolutionRepository) modelsToSolutions(models []SolutionModel) ([]*block.Solution, error) {
	solutions := make([]*block.Solution, 0, len(models))
	for i := range models {
		s, err := r.modelToSolution(&models[i])
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, s)
	}
	return solutions, nil
}

func (r *GormSolutionRepository) solutionToModel(s *block.Solution) (*SolutionModel, error) {
	wanted, err := json.Marshal(nonNilIDs(s.Wanted))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wanted: %w", err)
	}
	exports, err := json.Marshal(nonNilIDs(s.Exports))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exports: %w", err)
	}
	netRate := s.NetRate
	if netRate == nil {
		netRate = map[colon.ID]float64{}
	}
	net, err := json.Marshal(netRate)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal net rate: %w", err)
	}
	efficiencies := s.Efficiencies
	if efficiencies == nil {
		efficiencies = []float64{}
	}
	eff, err := json.Marshal(efficiencies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal efficiencies: %w", err)
	}

	return &SolutionModel{
		RunID:        s.RunID,
		BlockID:      s.BlockID,
		Fingerprint:  strconv.FormatUint(s.Fingerprint, 16),
		Score:        s.Score,
		Trials:       s.Trials,
		Truncated:    s.Truncated,
		Wanted:       string(wanted),
		Exports:      string(exports),
		NetRate:      string(net),
		Efficiencies: string(eff),
		CreatedAt:    s.CreatedAt,
	}, nil
}

func (r *GormSolutionRepository) modelToSolution(m *SolutionModel) (*block.Solution, error) {
	fingerprint, err := strconv.ParseUint(m.Fingerprint, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint %q for solution %d: %w", m.Fingerprint, m.ID, err)
	}

	s := &block.Solution{
		RunID:       m.RunID,
		BlockID:     m.BlockID,
		Fingerprint: fingerprint,
		Score:       m.Score,
		Trials:      m.Trials,
		Truncated:   m.Truncated,
		CreatedAt:   m.CreatedAt,
	}
	if err := unmarshalColumn(m.Wanted, &s.Wanted); err != nil {
		return nil, fmt.Errorf("failed to parse wanted: %w", err)
	}
	if err := unmarshalColumn(m.Exports, &s.Exports); err != nil {
		return nil, fmt.Errorf("failed to parse exports: %w", err)
	}
	if err := unmarshalColumn(m.NetRate, &s.NetRate); err != nil {
		return nil, fmt.Errorf("failed to parse net rate: %w", err)
	}
	if err := unmarshalColumn(m.Efficiencies, &s.Efficiencies); err != nil {
		return nil, fmt.Errorf("failed to parse efficiencies: %w", err)
	}
	return s, nil
}

func unmarshalColumn(raw string, out interface{}) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func nonNilIDs(ids []colon.ID) []colon.ID {
	if ids == nil {
		return []colon.ID{}
	}
	return ids
}
