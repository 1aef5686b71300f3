// Package middleware содержит промежуточное ПО для HTTP обработчиков тестового backend.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"aitsclient/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = logger.HeaderRequestID

const localRequestID = "request_id"

// NewRequestIDMiddleware берет идентификатор запроса из заголовка или генерирует новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestContext возвращает context.Context запроса с идентификатором запроса.
func RequestContext(c fiber.Ctx) context.Context {
	ctx := context.Context(c.Context())
	if id, ok := c.Locals(localRequestID).(string); ok {
		ctx = logger.NewRequestIDContext(ctx, id)
	}
	return ctx
}
