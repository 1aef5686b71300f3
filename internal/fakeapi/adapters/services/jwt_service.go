// Package services содержит сервисы выпуска токенов и хэширования паролей тестового backend.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"aitsclient/pkg/logger"
)

// Типы токенов.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const (
	methodIssuePair   = "IssuePair"
	methodIssueAccess = "IssueAccess"
	methodValidate    = "Validate"
	msgTokenGenerated = "token generated successfully"
	msgTokenValidated = "token validated successfully"
	msgTokenRevoked   = "token generation is revoked"
	msgTokensRevoked  = "tokens revoked"
	errCtxGenerating  = "generating token"
	errCtxValidating  = "validating token"
	errEmptySecretKey = "empty secret key"
)

// Ошибки сервиса токенов.
var (
	ErrGeneratingToken  = errors.New("failed to generate token")
	ErrInvalidToken     = errors.New("token is invalid or expired")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
)

// Claims - содержимое токенов тестового backend.
// Generation позволяет отозвать все ранее выпущенные токены одного типа.
type Claims struct {
	UserID     int64  `json:"user_id"`
	Type       string `json:"token_type"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет HS256 токены.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clockwork.Clock

	accessGen  atomic.Int64
	refreshGen atomic.Int64
}

// NewTokenService создает сервис токенов.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, clock clockwork.Clock) *TokenService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      clock,
	}
}

// IssuePair выпускает access и refresh токены пользователя.
func (s *TokenService) IssuePair(ctx context.Context, userID int64) (access, refresh string, err error) {
	log := logger.Log(ctx).With(zap.String("method", methodIssuePair), zap.Int64("user_id", userID))

	access, err = s.sign(userID, TokenTypeAccess, s.accessGen.Load(), s.accessTTL)
	if err != nil {
		log.Error(ctx, errCtxGenerating, zap.Error(err))
		return "", "", err
	}
	refresh, err = s.sign(userID, TokenTypeRefresh, s.refreshGen.Load(), s.refreshTTL)
	if err != nil {
		log.Error(ctx, errCtxGenerating, zap.Error(err))
		return "", "", err
	}

	log.Debug(ctx, msgTokenGenerated)
	return access, refresh, nil
}

// IssueAccess выпускает новый access токен.
func (s *TokenService) IssueAccess(ctx context.Context, userID int64) (string, error) {
	token, err := s.sign(userID, TokenTypeAccess, s.accessGen.Load(), s.accessTTL)
	if err != nil {
		logger.Log(ctx).Error(ctx, errCtxGenerating, zap.String("method", methodIssueAccess), zap.Error(err))
		return "", err
	}
	return token, nil
}

// IssueRefresh выпускает новый refresh токен (для ротации).
func (s *TokenService) IssueRefresh(_ context.Context, userID int64) (string, error) {
	return s.sign(userID, TokenTypeRefresh, s.refreshGen.Load(), s.refreshTTL)
}

func (s *TokenService) sign(userID int64, typ string, gen int64, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%s: %w: %s", errCtxGenerating, ErrGeneratingToken, errEmptySecretKey)
	}

	now := s.clock.Now()
	claims := Claims{
		UserID:     userID,
		Type:       typ,
		Generation: gen,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errCtxGenerating, ErrGeneratingToken, err)
	}
	return signed, nil
}

// Validate проверяет токен ожидаемого типа и возвращает ID пользователя.
func (s *TokenService) Validate(ctx context.Context, tokenString, expectedType string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidate), zap.String("type", expectedType))

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		log.Debug(ctx, errCtxValidating, zap.Error(err))
		return 0, fmt.Errorf("%s: %w: %w", errCtxValidating, ErrInvalidToken, err)
	}

	if claims.Type != expectedType {
		return 0, fmt.Errorf("%s: %w: %w", errCtxValidating, ErrInvalidToken, ErrWrongTokenType)
	}

	current := s.accessGen.Load()
	if expectedType == TokenTypeRefresh {
		current = s.refreshGen.Load()
	}
	if claims.Generation < current {
		log.Debug(ctx, msgTokenRevoked)
		return 0, fmt.Errorf("%s: %w", errCtxValidating, ErrInvalidToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.Int64("user_id", claims.UserID))
	return claims.UserID, nil
}

// RevokeAccessTokens делает недействительными все ранее выпущенные access токены.
func (s *TokenService) RevokeAccessTokens(ctx context.Context) {
	gen := s.accessGen.Add(1)
	logger.Log(ctx).Info(ctx, msgTokensRevoked, zap.String("type", TokenTypeAccess), zap.Int64("generation", gen))
}

// RevokeRefreshTokens делает недействительными все ранее выпущенные refresh токены.
func (s *TokenService) RevokeRefreshTokens(ctx context.Context) {
	gen := s.refreshGen.Add(1)
	logger.Log(ctx).Info(ctx, msgTokensRevoked, zap.String("type", TokenTypeRefresh), zap.Int64("generation", gen))
}
