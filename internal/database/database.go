package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NEXUS-UST/nexus-forum/internal/auth"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/logger"
	"github.com/NEXUS-UST/nexus-forum/internal/models"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

// New opens the relational store. TranslateError turns driver-specific
// uniqueness violations into gorm.ErrDuplicatedKey, which the store
// layer relies on. The automatic ping is disabled so an unreachable
// database does not keep the service from starting; reachability is
// surfaced per request and by /health.
func New(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("database opened")
	return db, nil
}

// Initialize migrates the schema and seeds defaults. Safe to run
// repeatedly: migration is additive and seeding inserts only when the
// natural key (category name, admin username) is absent.
func Initialize(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Topic{},
		&models.Post{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}

	return Seed(db)
}

// Seed inserts the default categories and the admin account if absent.
func Seed(db *gorm.DB) error {
	for _, category := range store.DefaultCategories() {
		err := db.Where(models.Category{Name: category.Name}).
			FirstOrCreate(&category).Error
		if err != nil {
			return fmt.Errorf("error seeding category %q: %w", category.Name, err)
		}
	}

	hash, err := auth.HashPassword(store.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}
	admin := models.User{
		Username:     store.AdminUsername,
		Email:        "admin@localhost",
		PasswordHash: hash,
		LastSeen:     time.Now().UTC(),
	}
	err = db.Where(models.User{Username: store.AdminUsername}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return fmt.Errorf("error seeding admin user: %w", err)
	}

	logger.Info("database seeded", zap.String("admin", store.AdminUsername))
	return nil
}

// Health reports the shape served by GET /health: overall status, store
// reachability, and the seeded category count as a cheap sanity probe.
func Health(ctx context.Context, s store.Store) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		return map[string]any{
			"status":   "degraded",
			"database": "down",
			"error":    err.Error(),
		}
	}

	categories, err := s.CategoryCount(ctx)
	if err != nil {
		return map[string]any{
			"status":   "degraded",
			"database": "up",
			"error":    err.Error(),
		}
	}

	return map[string]any{
		"status":     "ok",
		"database":   "up",
		"categories": categories,
	}
}
