package block

import "context"

// Source provides block facts from the ingestion pipeline
type Source interface {
	Blocks(ctx context.Context) ([]Block, error)
}

// SolutionRepository persists analysis history
type SolutionRepository interface {
	Save(ctx context.Context, solution *Solution) error
	ListByBlock(ctx context.Context, blockID string, limit int) ([]*Solution, error)
	List(ctx context.Context, limit int) ([]*Solution, error)
}
