package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/database"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestInitializeIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, database.Initialize(db))
	require.NoError(t, database.Initialize(db))

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(len(store.DefaultCategories())), categories)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", store.AdminUsername).
		Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestNewWithUnreachableDatabase(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.DSN = "host=127.0.0.1 port=1 user=x password=x dbname=x sslmode=disable"

	// opening must succeed so the service can start and surface store
	// failures lazily, per request
	db, err := database.New(cfg)
	require.NoError(t, err)

	s := store.NewGorm(db)
	assert.Error(t, s.Ping(context.Background()))

	body := database.Health(context.Background(), s)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "down", body["database"])
	assert.NotEmpty(t, body["error"])

	assert.Error(t, database.Initialize(db))
}

func TestHealthShapes(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, database.Initialize(db))

	body := database.Health(context.Background(), store.NewGorm(db))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.Equal(t, int64(len(store.DefaultCategories())), body["categories"])
}
