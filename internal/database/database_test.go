package database

import (
	"path/filepath"
	"testing"

	"github.com/collabridge/collabridge-api/internal/config"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}

	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db, zap.NewNop()))
	// Second run must be a no-op for existing indexes
	require.NoError(t, Migrate(db, zap.NewNop()))

	assert.True(t, db.Migrator().HasTable(&models.Comment{}))
	assert.True(t, db.Migrator().HasIndex(&models.Task{}, "idx_tasks_project_status_order"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "p.db"), LogLevel: "silent"}
	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	for _, name := range []string{"aaa", "bbb", "ccc"} {
		require.NoError(t, db.Create(&models.User{Name: name, Username: name, Email: name + "@x.com", PasswordHash: "x"}).Error)
	}

	var page []models.User
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Order("id").Find(&page).Error)
	require.Len(t, page, 1)
	assert.Equal(t, "ccc", page[0].Username)

	var all []models.User
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{})).Find(&all).Error)
	assert.Len(t, all, 3)
}
