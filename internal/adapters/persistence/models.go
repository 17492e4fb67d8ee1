package persistence

import (
	"time"
)

// SolutionModel represents the solutions table
type SolutionModel struct {
	ID           int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string    `gorm:"column:run_id;not null;index"`
	BlockID      string    `gorm:"column:block_id;not null;index"`
	Fingerprint  string    `gorm:"column:fingerprint;not null"` // hex, uint64 overflows BIGINT
	Score        float64   `gorm:"column:score;not null"`
	Trials       int       `gorm:"column:trials;not null"`
	Truncated    bool      `gorm:"column:truncated;not null;default:false"`
	Wanted       string    `gorm:"column:wanted;type:text"`       // JSON array as text
	Exports      string    `gorm:"column:exports;type:text"`      // JSON array as text
	NetRate      string    `gorm:"column:net_rate;type:text"`     // JSON object as text
	Efficiencies string    `gorm:"column:efficiencies;type:text"` // JSON array as text
	CreatedAt    time.Time `gorm:"column:created_at;not null;index"`
}

func (SolutionModel) TableName() string {
	return "solutions"
}

// AnalysisRunModel represents the analysis_runs table
type AnalysisRunModel struct {
	RunID     string    `gorm:"column:run_id;primaryKey"`
	Blocks    int       `gorm:"column:blocks;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (AnalysisRunModel) TableName() string {
	return "analysis_runs"
}
