package http

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/fakeapi/adapters/services"
	"aitsclient/internal/fakeapi/app/http/middleware"
	"aitsclient/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login обрабатывает POST /token/ и возвращает пару токенов с данными пользователя.
func (h *Handler) Login(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req loginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if req.Username == "" {
		return fieldError(c, "username", ErrorFieldRequired)
	}
	if req.Password == "" {
		return fieldError(c, "password", ErrorFieldRequired)
	}

	user, hash, err := h.repo.UserByUsername(req.Username)
	if err == nil {
		var ok bool
		ok, err = h.passwords.Verify(req.Password, hash)
		if err == nil && !ok {
			err = services.ErrInvalidPassword
		}
	}
	if err != nil {
		log.Info(requestCtx, LogAuthFailed, zap.String("username", req.Username))
		return detail(c, fiber.StatusUnauthorized, ErrorNoActiveAccount)
	}

	access, refresh, err := h.tokens.IssuePair(requestCtx, user.ID)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	log.Info(requestCtx, LogAuthenticated,
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return c.JSON(entities.TokenResponse{
		Access:    access,
		Refresh:   refresh,
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		College:   user.College,
	})
}

// Refresh обрабатывает POST /token/refresh/.
func (h *Handler) Refresh(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerRefresh)

	h.refresh.calls.Add(1)
	h.refresh.runBefore()

	var req entities.RefreshRequest
	if err := c.Bind().JSON(&req); err != nil || req.Refresh == "" {
		return fieldError(c, "refresh", ErrorFieldRequired)
	}

	if h.refresh.fail.Load() {
		log.Info(requestCtx, LogRefreshRejected, zap.String("reason", "forced"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Token is invalid or expired",
			"code":   middleware.CodeTokenNotValid,
		})
	}

	userID, err := h.tokens.Validate(requestCtx, req.Refresh, services.TokenTypeRefresh)
	if err != nil {
		log.Info(requestCtx, LogRefreshRejected, zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Token is invalid or expired",
			"code":   middleware.CodeTokenNotValid,
		})
	}

	access, err := h.tokens.IssueAccess(requestCtx, userID)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := entities.RefreshResponse{Access: access}
	if h.refresh.rotate.Load() {
		if resp.Refresh, err = h.tokens.IssueRefresh(requestCtx, userID); err != nil {
			return detail(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(resp)
}

// Register обрабатывает POST /register/.
func (h *Handler) Register(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerRegister)

	var reg entities.Registration
	if err := c.Bind().JSON(&reg); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	if err := reg.Validate(); err != nil {
		switch err {
		case entities.ErrEmptyUsername:
			return fieldError(c, "username", ErrorFieldRequired)
		case entities.ErrEmptyPassword:
			return fieldError(c, "password", ErrorFieldRequired)
		case entities.ErrInvalidRole:
			return fieldError(c, "role", "\""+string(reg.Role)+"\" is not a valid choice.")
		case entities.ErrStudentNumberReq:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"student_number": "Student number is required for students."})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"college": "College is required."})
		}
	}

	hash, err := h.passwords.Hash(reg.Password)
	if err != nil {
		return fieldError(c, "password", err.Error())
	}

	user, err := h.repo.CreateUser(&reg, hash)
	if err != nil {
		return repoError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetProfile обрабатывает GET /profile/.
func (h *Handler) GetProfile(c fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// UpdateProfile обрабатывает PATCH /profile/.
func (h *Handler) UpdateProfile(c fiber.Ctx) error {
	var patch entities.ProfileUpdate
	if err := c.Bind().JSON(&patch); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}

	user, err := h.repo.UpdateUser(middleware.CurrentUser(c).ID, &patch)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(user)
}

// ListUsers обрабатывает GET /users/?role=.
func (h *Handler) ListUsers(c fiber.Ctx) error {
	return c.JSON(h.repo.ListUsers(entities.Role(c.Query("role"))))
}
