package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NEXUS-UST/nexus-forum/internal/config"
)

var (
	mu sync.RWMutex
	l  *zap.Logger
)

// InitFromConfig builds the global logger from app config.
func InitFromConfig(cfg *config.Config) {
	Init(cfg.Log.Level, cfg.Log.Format)
}

// Init sets up the global logger. Safe to call multiple times.
func Init(level, format string) {
	mu.Lock()
	defer mu.Unlock()

	zc := zap.NewProductionConfig()
	if strings.ToLower(format) != "json" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := zc.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	l = logger
}

// L returns the global logger, initializing a default one if needed.
func L() *zap.Logger {
	mu.RLock()
	if l != nil {
		defer mu.RUnlock()
		return l
	}
	mu.RUnlock()

	Init("info", "console")

	mu.RLock()
	defer mu.RUnlock()
	return l
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
