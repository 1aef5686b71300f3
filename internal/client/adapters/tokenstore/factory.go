package tokenstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aitsclient/internal/client/config"
	"aitsclient/internal/client/ports/store"
	"aitsclient/internal/client/resilience"
	"aitsclient/pkg/db/redis"
	"aitsclient/pkg/logger"
)

const (
	LogStoreOpened = "token store opened"

	ErrOpenStore = "failed to open token store"
)

// Closer освобождает ресурсы хранилища.
type Closer func() error

func noopCloser() error { return nil }

// Open создает хранилище токенов по конфигурации.
// Для redis соединение проверяется с повторными попытками.
func Open(ctx context.Context, cfg *config.StoreConfig) (store.TokenStore, Closer, error) {
	log := logger.Log(ctx).With(zap.String("store", string(cfg.Kind)))

	switch cfg.Kind {
	case config.StoreMemory:
		log.Debug(ctx, LogStoreOpened)
		return NewMemoryStore(), noopCloser, nil

	case config.StoreFile:
		dir := cfg.GetDir()
		s, err := NewDiskStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrOpenStore, err)
		}
		log.Debug(ctx, LogStoreOpened, zap.String("dir", dir))
		return s, noopCloser, nil

	case config.StoreRedis:
		redisCfg := &redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.Timeout,
		}
		if err := redisCfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrOpenStore, err)
		}
		client := redis.NewClient(redisCfg)

		retry := resilience.NewRetry("redis-ping", resilience.DefaultRetryConfig(), nil)
		if err := retry.Execute(ctx, client.Ping); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("%s: %w", ErrOpenStore, err)
		}

		log.Debug(ctx, LogStoreOpened, zap.String("addr", redisCfg.Addr()), zap.String("namespace", cfg.Namespace))
		return NewRedisStore(client.RawClient(), cfg.Namespace), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("%s: %w: %q", ErrOpenStore, config.ErrUnknownStoreKind, cfg.Kind)
	}
}
