package backend

import (
	"context"
	"net/http"

	"aitsclient/internal/client/adapters/rest"
	"aitsclient/internal/client/domain/entities"
)

// Константы для логирования.
const (
	LogMethodLogin         = "Login"
	LogMethodRegister      = "Register"
	LogMethodGetProfile    = "GetProfile"
	LogMethodUpdateProfile = "UpdateProfile"
	LogMethodListUsers     = "ListUsers"

	ErrorFailedToLogin         = "failed to login"
	ErrorFailedToRegister      = "failed to register user"
	ErrorFailedToGetProfile    = "failed to get user profile"
	ErrorFailedToUpdateProfile = "failed to update user profile"
	ErrorFailedToListUsers     = "failed to list users"
)

// Login обменивает учетные данные на пару токенов. Токены не сохраняются.
func (c *Client) Login(ctx context.Context, username, password string) (*entities.TokenResponse, error) {
	req := rest.NewRequest(http.MethodPost, "/token/").
		WithBody(map[string]string{"username": username, "password": password}).
		AsAnonymous()

	var resp entities.TokenResponse
	if err := c.rest.Do(ctx, req, &resp); err != nil {
		return nil, fail(ctx, LogMethodLogin, ErrorFailedToLogin, err)
	}
	return &resp, nil
}

// Register создает учетную запись.
func (c *Client) Register(ctx context.Context, reg *entities.Registration) (*entities.User, error) {
	req := rest.NewRequest(http.MethodPost, "/register/").WithBody(reg).AsAnonymous()

	var user entities.User
	if err := c.rest.Do(ctx, req, &user); err != nil {
		return nil, fail(ctx, LogMethodRegister, ErrorFailedToRegister, err)
	}
	return &user, nil
}

// GetProfile возвращает профиль текущего пользователя.
func (c *Client) GetProfile(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := c.rest.Get(ctx, "/profile/", &user); err != nil {
		return nil, fail(ctx, LogMethodGetProfile, ErrorFailedToGetProfile, err)
	}
	return &user, nil
}

// UpdateProfile частично обновляет профиль текущего пользователя.
func (c *Client) UpdateProfile(ctx context.Context, patch *entities.ProfileUpdate) (*entities.User, error) {
	var user entities.User
	if err := c.rest.Patch(ctx, "/profile/", patch, &user); err != nil {
		return nil, fail(ctx, LogMethodUpdateProfile, ErrorFailedToUpdateProfile, err)
	}
	return &user, nil
}

// ListUsers возвращает пользователей; пустая role означает всех.
func (c *Client) ListUsers(ctx context.Context, role entities.Role) ([]entities.UserSummary, error) {
	req := rest.NewRequest(http.MethodGet, "/users/").WithQuery("role", string(role))

	var users []entities.UserSummary
	if err := c.rest.Do(ctx, req, &users); err != nil {
		return nil, fail(ctx, LogMethodListUsers, ErrorFailedToListUsers, err)
	}
	return users, nil
}

// ListLecturers возвращает преподавателей.
func (c *Client) ListLecturers(ctx context.Context) ([]entities.UserSummary, error) {
	return c.ListUsers(ctx, entities.RoleLecturer)
}
