package store

import (
	"context"

	"aitsclient/internal/client/domain/entities"
)

// TokenStore определяет хранилище пары токенов текущей сессии.
// Get возвращает nil без ошибки, если пара отсутствует или неполная.
// Реализации должны быть безопасны для конкурентного использования.
type TokenStore interface {
	Get(ctx context.Context) (*entities.CredentialPair, error)

	Set(ctx context.Context, pair *entities.CredentialPair) error

	Clear(ctx context.Context) error
}
