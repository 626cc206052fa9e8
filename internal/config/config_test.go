package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NEXUS-UST/nexus-forum/internal/config"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"JWT_SECRET", "EXPOSE_ERRORS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := config.New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverPostgres, cfg.StoreDriver)
	assert.Contains(t, cfg.DB.DSN, "dbname=nexus_forum")
	assert.True(t, cfg.JWT.InsecureDefault, "missing JWT_SECRET must be flagged")
	assert.False(t, cfg.ExposeErrors)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_DRIVER", config.DriverMemory)
	t.Setenv("DATABASE_URL", "host=db port=5432 user=u password=p dbname=forum sslmode=require")
	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("EXPOSE_ERRORS", "true")

	cfg := config.New()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, config.DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=forum sslmode=require", cfg.DB.DSN)
	assert.Equal(t, "real-secret", cfg.JWT.Secret)
	assert.False(t, cfg.JWT.InsecureDefault)
	assert.True(t, cfg.ExposeErrors)
}
