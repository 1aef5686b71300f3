package api

import (
	"context"

	"aitsclient/internal/client/domain/entities"
)

// AuthAPI определяет операции backend, связанные с учетной записью.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*entities.TokenResponse, error)

	Register(ctx context.Context, reg *entities.Registration) (*entities.User, error)

	GetProfile(ctx context.Context) (*entities.User, error)

	UpdateProfile(ctx context.Context, patch *entities.ProfileUpdate) (*entities.User, error)
}

// UserAPI определяет операции со списками пользователей.
type UserAPI interface {
	ListUsers(ctx context.Context, role entities.Role) ([]entities.UserSummary, error)

	ListLecturers(ctx context.Context) ([]entities.UserSummary, error)
}
