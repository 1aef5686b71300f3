package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"aitsclient/pkg/logger"
)

const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
)

// NewLoggerMiddleware пишет в лог каждый запрос со статусом и длительностью.
// Ответы 4xx и 5xx пишутся с уровнем warn.
func NewLoggerMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Bool("bearer", c.Get(fiber.HeaderAuthorization) != ""),
		)
		log.Debug(requestCtx, LogRequestStarted)

		err := c.Next()
		status := c.Response().StatusCode()
		fields := []zap.Field{zap.Int("status", status), zap.Duration("latency", time.Since(start))}

		switch {
		case err != nil:
			log.Error(requestCtx, LogRequestFailed, append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		case status >= fiber.StatusBadRequest:
			log.Warn(requestCtx, LogRequestCompleted, fields...)
		default:
			log.Info(requestCtx, LogRequestCompleted, fields...)
		}
		return nil
	}
}
