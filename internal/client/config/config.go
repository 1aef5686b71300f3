// Package config содержит конфигурацию клиента AITS.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "aitsclient/pkg/config"
	"aitsclient/pkg/logger"
)

const (
	serviceName = "aits-client"

	// DefaultEnvPath - файл окружения, читаемый по умолчанию, если он существует.
	DefaultEnvPath = ".env"

	LogConfigLoaded     = "client configuration"
	ErrFailedLoadConfig = "failed to load client configuration"
)

// Config представляет полную конфигурацию клиента.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из envPath (если файл существует) и переменных окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Debug(ctx, LogConfigLoaded,
		zap.String("api_url", cfg.API.BaseURL),
		zap.Duration("api_timeout", cfg.API.Timeout),
		zap.Duration("refresh_timeout", cfg.API.RefreshTimeout),
		zap.String("store_kind", string(cfg.Store.Kind)),
		zap.Int("breaker_threshold", cfg.Breaker.ErrorThreshold))

	return cfg, nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	return c.Store.Validate()
}
