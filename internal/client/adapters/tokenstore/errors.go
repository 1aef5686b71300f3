package tokenstore

import "errors"

// Ошибки хранилищ токенов.
var (
	ErrIncompletePair = errors.New("credential pair must contain both tokens")

	ErrReadTokens  = errors.New("failed to read tokens")
	ErrWriteTokens = errors.New("failed to write tokens")
	ErrClearTokens = errors.New("failed to clear tokens")
)

// Ключи, под которыми хранятся токены.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Сообщения логирования.
const (
	LogTokensStored  = "tokens stored"
	LogTokensCleared = "tokens cleared"
	LogPartialPair   = "partial credential pair treated as absent"
)
