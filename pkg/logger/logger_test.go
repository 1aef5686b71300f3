package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"aitsclient/pkg/logger"
)

func TestFromContext(t *testing.T) {
	t.Run("success when logger exists in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		retrievedLogger, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, retrievedLogger)
	})

	t.Run("error when no logger in context", func(t *testing.T) {
		retrievedLogger, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, retrievedLogger)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})

	t.Run("error when context has non-logger values", func(t *testing.T) {
		type ctxKeyType struct{}
		ctx := context.WithValue(context.Background(), ctxKeyType{}, "not a logger")

		retrievedLogger, err := logger.FromContext(ctx)
		require.Error(t, err)
		assert.Nil(t, retrievedLogger)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	t.Run("prefers context logger over global", func(t *testing.T) {
		globalLog, err := logger.NewLogger(logger.Production, "info")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLog)
		t.Cleanup(func() { logger.SetGlobalLogger(nil) })

		contextLog, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), contextLog)
		assert.Same(t, contextLog, logger.Log(ctx))
		assert.Same(t, globalLog, logger.Log(context.Background()))
	})

	t.Run("falls back when nothing is configured", func(t *testing.T) {
		logger.SetGlobalLogger(nil)
		assert.NotNil(t, logger.Log(context.Background()))
	})
}

func TestInitGlobalLogger(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	require.NoError(t, logger.InitGlobalLogger(logger.Production, "info"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLogger(logger.Development, "debug"))
	second := logger.Log(context.Background())

	assert.Same(t, first, second, "second init must keep the existing logger")
}

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, logger.Development, logger.ParseEnvironment("development"))
	assert.Equal(t, logger.Development, logger.ParseEnvironment("DEVELOPMENT"))
	assert.Equal(t, logger.Production, logger.ParseEnvironment("production"))
	assert.Equal(t, logger.Production, logger.ParseEnvironment(""))
}

func TestRequestIDIsAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.New(zap.New(core))

	ctx := logger.NewRequestIDContext(context.Background(), "req-42")
	log.Info(ctx, "with id")
	log.Info(context.Background(), "without id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()[logger.RequestID])
	_, ok := entries[1].ContextMap()[logger.RequestID]
	assert.False(t, ok)
}

func TestWithRequestID(t *testing.T) {
	baseLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	t.Run("adds request ID field when present in context", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "test-request-id-123")
		assert.NotSame(t, baseLogger, baseLogger.WithRequestID(ctx))
	})

	t.Run("returns original logger when no request ID in context", func(t *testing.T) {
		assert.Same(t, baseLogger, baseLogger.WithRequestID(context.Background()))
	})
}

func TestGenerateRequestID(t *testing.T) {
	first := logger.GenerateRequestID()
	second := logger.GenerateRequestID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second, "generated IDs should be unique")

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestNewRequestIDContext(t *testing.T) {
	t.Run("keeps provided id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "fixed")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "fixed", id)
	})

	t.Run("generates id when empty", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.NotEmpty(t, id)
	})
}

func TestEnsureRequestID(t *testing.T) {
	t.Run("keeps existing id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "existing")
		got, id := logger.EnsureRequestID(ctx)
		assert.Equal(t, "existing", id)
		assert.Equal(t, ctx, got)
	})

	t.Run("attaches new id", func(t *testing.T) {
		ctx, id := logger.EnsureRequestID(context.Background())
		require.NotEmpty(t, id)

		stored, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, id, stored)
	})
}
