// Package session определяет управление сессией клиента.
package session

import (
	"context"

	"aitsclient/internal/client/domain/entities"
)

// EndReason - причина завершения сессии.
type EndReason string

// Причины завершения сессии.
const (
	ReasonLogout        EndReason = "logout"
	ReasonRefreshFailed EndReason = "refresh_failed"
	ReasonNoRefresh     EndReason = "no_refresh_token"
)

// EndedFunc вызывается после очистки хранилища токенов.
type EndedFunc func(ctx context.Context, reason EndReason)

// Manager управляет парой токенов текущей сессии и уведомляет о ее завершении.
type Manager interface {
	StartSession(ctx context.Context, pair *entities.CredentialPair) error

	HasSession(ctx context.Context) (bool, error)

	EndSession(ctx context.Context) error

	OnSessionEnded(fn EndedFunc) (unsubscribe func())
}
