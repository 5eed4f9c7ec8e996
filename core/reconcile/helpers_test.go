package reconcile

import (
	"testing"
	"time"

	"courtside/core/database"
	"courtside/core/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return NewEngine(db, zap.NewNop()), db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

var kickoff = time.Date(2025, 1, 15, 19, 30, 0, 0, time.UTC)
