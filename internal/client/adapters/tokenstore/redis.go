package tokenstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/store"
	"aitsclient/pkg/logger"
)

const redisKeyPrefix = "aits:session:"

// RedisStore хранит пару токенов в одном hash на пространство имен,
// что позволяет нескольким процессам разделять одну сессию.
type RedisStore struct {
	rdb redis.UniversalClient
	key string
}

// NewRedisStore создает хранилище в Redis для указанного пространства имен.
func NewRedisStore(rdb redis.UniversalClient, namespace string) store.TokenStore {
	return &RedisStore{
		rdb: rdb,
		key: redisKeyPrefix + namespace,
	}
}

func (s *RedisStore) Get(ctx context.Context) (*entities.CredentialPair, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadTokens, err)
	}

	pair := &entities.CredentialPair{
		AccessToken:  vals[KeyAccessToken],
		RefreshToken: vals[KeyRefreshToken],
	}
	if !pair.IsComplete() {
		if len(vals) > 0 {
			logger.Log(ctx).Debug(ctx, LogPartialPair, zap.String("store", "redis"))
		}
		return nil, nil
	}
	return pair, nil
}

func (s *RedisStore) Set(ctx context.Context, pair *entities.CredentialPair) error {
	if !pair.IsComplete() {
		return ErrIncompletePair
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key,
			KeyAccessToken, pair.AccessToken,
			KeyRefreshToken, pair.RefreshToken)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTokens, err)
	}

	logger.Log(ctx).Debug(ctx, LogTokensStored, zap.String("store", "redis"))
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrClearTokens, err)
	}

	logger.Log(ctx).Debug(ctx, LogTokensCleared, zap.String("store", "redis"))
	return nil
}
