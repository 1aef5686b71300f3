package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"aitsclient/pkg/logger"
)

const (
	LogHandlerPanic    = "handler panic"
	LogPanicReplyError = "failed to send error response after panic"

	DetailServerError = "A server error occurred."
)

// NewRecoveryMiddleware превращает панику обработчика в ответ 500 с идентификатором запроса.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		requestCtx := RequestContext(c)

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			id, _ := logger.GetRequestID(requestCtx)
			log := logger.Log(requestCtx).With(zap.String("method", c.Method()), zap.String("path", c.Path()))
			log.Error(requestCtx, LogHandlerPanic,
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()))

			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail":     DetailServerError,
				"request_id": id,
			})
			if err != nil {
				log.Error(requestCtx, LogPanicReplyError, zap.Error(err))
			}
		}()

		return c.Next()
	}
}
