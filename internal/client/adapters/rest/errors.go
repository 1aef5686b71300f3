package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Ошибки клиента.
var (
	// ErrSessionExpired означает, что сессия завершена и требуется повторный вход.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoRefreshToken означает, что обновить токен нечем.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshFailed означает, что backend отклонил обновление или оно не удалось.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrEmptyAccessToken возвращается, если ответ обновления не содержит токен.
	ErrEmptyAccessToken = errors.New("refresh response has no access token")
	// ErrTransport оборачивает сетевые ошибки.
	ErrTransport = errors.New("transport error")
	// ErrDecodeResponse возвращается при невозможности разобрать тело ответа.
	ErrDecodeResponse = errors.New("failed to decode response")
	// ErrReadTokens возвращается, если хранилище токенов недоступно.
	ErrReadTokens = errors.New("failed to read tokens")
)

const maxDetailLen = 200

// APIError описывает ответ backend со статусом вне диапазона 2xx.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Detail:     extractDetail(body),
		Body:       body,
	}
}

// extractDetail достает сообщение из тел вида {"detail": ...}, {"error": ...}
// или ошибок валидации полей {"field": ["msg"]}.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return truncate(strings.TrimSpace(string(body)))
	}

	for _, key := range []string{"detail", "error", "message"} {
		if raw, ok := obj[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return s
			}
		}
	}

	fields := make([]string, 0, len(obj))
	for key, raw := range obj {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			fields = append(fields, key+": "+strings.Join(msgs, " "))
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			fields = append(fields, key+": "+s)
		}
	}
	if len(fields) > 0 {
		slices.Sort(fields)
		return truncate(strings.Join(fields, "; "))
	}
	return truncate(string(body))
}

func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	return s[:maxDetailLen] + "..."
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound сообщает, что ошибка является ответом 404.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsUnauthorized сообщает, что ошибка является ответом 401.
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

// IsForbidden сообщает, что ошибка является ответом 403.
func IsForbidden(err error) bool { return statusOf(err) == http.StatusForbidden }

// IsBadRequest сообщает, что ошибка является ответом 400.
func IsBadRequest(err error) bool { return statusOf(err) == http.StatusBadRequest }
