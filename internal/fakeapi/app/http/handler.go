// Package http содержит HTTP обработчики и маршрутизацию тестового backend AITS.
package http

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v3"

	"aitsclient/internal/fakeapi/adapters/memory"
	"aitsclient/internal/fakeapi/adapters/services"
)

// Константы для логирования.
const (
	LogHandlerLogin    = "handler: login"
	LogHandlerRegister = "handler: register"
	LogHandlerRefresh  = "handler: refresh token" // #nosec G101 - not a credential
	LogRefreshRejected = "refresh rejected"
	LogAuthFailed      = "authentication failed"
	LogAuthenticated   = "user authenticated"

	ErrorInvalidRequest  = "invalid request"
	ErrorFieldRequired   = "This field is required."
	ErrorNoActiveAccount = "No active account found with the given credentials"
)

// RefreshControl управляет поведением обмена refresh токена в тестах.
type RefreshControl struct {
	calls  atomic.Int64
	fail   atomic.Bool
	rotate atomic.Bool

	mu     sync.RWMutex
	before func()
}

// Calls возвращает количество обращений к POST /token/refresh/.
func (rc *RefreshControl) Calls() int64 { return rc.calls.Load() }

// SetFail заставляет обмен отвечать 401.
func (rc *RefreshControl) SetFail(fail bool) { rc.fail.Store(fail) }

// SetRotate включает выдачу нового refresh токена при обмене.
func (rc *RefreshControl) SetRotate(rotate bool) { rc.rotate.Store(rotate) }

// SetBefore задает функцию, вызываемую в начале каждого обмена (до проверки токена).
func (rc *RefreshControl) SetBefore(fn func()) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.before = fn
}

func (rc *RefreshControl) runBefore() {
	rc.mu.RLock()
	fn := rc.before
	rc.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Handler содержит HTTP обработчики тестового backend.
type Handler struct {
	repo      *memory.Repository
	tokens    *services.TokenService
	passwords *services.PasswordService
	refresh   *RefreshControl
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(
	repo *memory.Repository,
	tokens *services.TokenService,
	passwords *services.PasswordService,
	refresh *RefreshControl,
) *Handler {
	return &Handler{
		repo:      repo,
		tokens:    tokens,
		passwords: passwords,
		refresh:   refresh,
	}
}

func detail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func fieldError(c fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{field: []string{msg}})
}

// repoError переводит ошибки хранилища в ответы в формате DRF.
func repoError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, memory.ErrNotFound):
		return detail(c, fiber.StatusNotFound, "Not found.")
	case errors.Is(err, memory.ErrForbidden):
		return detail(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, memory.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, memory.ErrNotStaff):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Can only assign to staff members"})
	case errors.Is(err, memory.ErrUsernameTaken):
		return fieldError(c, "username", "A user with that username already exists.")
	default:
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
}

func pathID(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}
