package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LogAuthMiddleware = "auth middleware"

	DetailNoCredentials = "Authentication credentials were not provided."
	DetailTokenInvalid  = "Given token not valid for any token type"
	CodeTokenNotValid   = "token_not_valid"

	localUser = "user"
)

// AccessValidator проверяет access токен и возвращает ID пользователя.
type AccessValidator func(ctx context.Context, token string) (int64, error)

// UserLoader загружает пользователя по ID.
type UserLoader func(id int64) (*entities.User, error)

// NewAuthMiddleware проверяет bearer access токен и сохраняет пользователя в Locals.
func NewAuthMiddleware(validate AccessValidator, load UserLoader) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": DetailNoCredentials})
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": DetailNoCredentials})
		}

		userID, err := validate(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, DetailTokenInvalid, zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": DetailTokenInvalid,
				"code":   CodeTokenNotValid,
			})
		}

		user, err := load(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "User not found",
				"code":   "user_not_found",
			})
		}

		c.Locals(localUser, user)
		return c.Next()
	}
}

// CurrentUser возвращает пользователя, установленного NewAuthMiddleware.
func CurrentUser(c fiber.Ctx) *entities.User {
	user, _ := c.Locals(localUser).(*entities.User)
	return user
}
