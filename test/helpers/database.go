package helpers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/blockflow-go/internal/adapters/persistence"
	"github.com/andrescamacho/blockflow-go/internal/infrastructure/database"
)

// SharedTestDB is the history store shared by BDD scenarios
var SharedTestDB *gorm.DB

// NewTestDB opens a migrated in-memory history store closed when t ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "open test history store")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewTestRepository returns a solution repository over NewTestDB
func NewTestRepository(t *testing.T) *persistence.GormSolutionRepository {
	t.Helper()
	return persistence.NewGormSolutionRepository(NewTestDB(t))
}

// InitializeSharedTestDB opens SharedTestDB once from TestMain
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables empties every history table between scenarios
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return errors.New("shared test database not initialized")
	}
	session := SharedTestDB.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&persistence.SolutionModel{}, &persistence.AnalysisRunModel{}} {
		if err := session.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to truncate %T: %w", model, err)
		}
	}
	return nil
}

// CloseSharedTestDB closes SharedTestDB from TestMain
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	err := database.Close(SharedTestDB)
	SharedTestDB = nil
	return err
}
