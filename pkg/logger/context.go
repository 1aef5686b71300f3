package logger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrLoggerNotFound   = errors.New("logger not found in context")
	ErrInitGlobalLogger = errors.New("failed to initialize global logger")
)

var (
	global   atomic.Pointer[Logger]
	globalMu sync.Mutex

	// fallback пишет только предупреждения и ошибки, пока глобальный logger не задан.
	fallback = sync.OnceValue(func() *Logger {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		zl, err := cfg.Build()
		if err != nil {
			zl = zap.NewNop()
		}
		return New(zl.With(zap.String("logger", "fallback")))
	})
)

type loggerKey struct{}

// NewContext возвращает контекст, несущий logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext извлекает logger, сохраненный NewContext.
func FromContext(ctx context.Context) (*Logger, error) {
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger lookup: %w", ErrLoggerNotFound)
}

// InitGlobalLogger создает глобальный logger. Повторный вызов ничего не меняет.
func InitGlobalLogger(env Environment, level string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global.Load() != nil {
		return nil
	}

	logger, err := NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitGlobalLogger, err)
	}
	global.Store(logger)
	return nil
}

// SetGlobalLogger заменяет глобальный logger; nil возвращает резервный.
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global.Store(logger)
}

// Log выбирает logger в порядке: контекст, глобальный, резервный.
func Log(ctx context.Context) *Logger {
	if logger, err := FromContext(ctx); err == nil {
		return logger
	}
	if logger := global.Load(); logger != nil {
		return logger
	}
	return fallback()
}
