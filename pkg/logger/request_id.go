package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID - HTTP заголовок, в котором идентификатор запроса передается между клиентом и сервером.
const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// NewRequestIDContext сохраняет идентификатор запроса в контексте.
// Пустой идентификатор заменяется сгенерированным.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID возвращает идентификатор запроса, если он есть в контексте.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// EnsureRequestID возвращает идентификатор из ctx, а при его отсутствии
// создает новый и возвращает дочерний контекст с ним.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := GetRequestID(ctx); ok {
		return ctx, id
	}
	id := GenerateRequestID()
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// GenerateRequestID генерирует случайный UUID v4.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID добавляет поле request_id, если идентификатор есть в ctx.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	id, ok := GetRequestID(ctx)
	if !ok {
		return l
	}
	return l.With(zap.String(RequestID, id))
}
