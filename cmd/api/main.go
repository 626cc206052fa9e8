package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/NEXUS-UST/nexus-forum/internal/auth"
	"github.com/NEXUS-UST/nexus-forum/internal/config"
	"github.com/NEXUS-UST/nexus-forum/internal/database"
	"github.com/NEXUS-UST/nexus-forum/internal/logger"
	"github.com/NEXUS-UST/nexus-forum/internal/server"
	"github.com/NEXUS-UST/nexus-forum/internal/store"
)

func main() {
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	if cfg.JWT.InsecureDefault {
		log.Warn("JWT_SECRET not set, using insecure development default")
	}

	st, err := buildStore(cfg)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}

	srv := server.New(cfg, st)
	log.Info("server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.StoreDriver))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		m := store.NewMemory()
		hash, err := auth.HashPassword(store.DefaultAdminPassword)
		if err != nil {
			return nil, err
		}
		m.SeedDefaults(hash)
		return m, nil
	default:
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		// Schema creation and seeding failures are logged, not fatal:
		// the service still serves and surfaces store errors per
		// request.
		if err := database.Initialize(db); err != nil {
			logger.Error("database initialization failed", zap.Error(err))
		}
		return store.NewGorm(db), nil
	}
}
