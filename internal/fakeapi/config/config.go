// Package config содержит конфигурацию тестового backend AITS.
package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	pkgconfig "aitsclient/pkg/config"
	"aitsclient/pkg/logger"
)

const (
	serviceName = "aits-fakeapi"

	LogConfigLoaded     = "fake api configuration"
	ErrFailedLoadConfig = "failed to load fake api configuration"
)

// Config представляет полную конфигурацию тестового backend.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"FAKEAPI_HTTP_HOST" env-default:"127.0.0.1"`
	Port         int           `yaml:"port" env:"FAKEAPI_HTTP_PORT" env-default:"8000"`
	Prefix       string        `yaml:"prefix" env:"FAKEAPI_HTTP_PREFIX" env-default:"/api"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"FAKEAPI_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"FAKEAPI_HTTP_WRITE_TIMEOUT" env-default:"10s"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// JWTConfig представляет параметры выпуска токенов.
type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"FAKEAPI_JWT_SECRET" env-default:"fake-api-insecure-secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"FAKEAPI_JWT_ACCESS_TTL" env-default:"5m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"FAKEAPI_JWT_REFRESH_TTL" env-default:"24h"`
	BcryptCost      int           `yaml:"bcrypt_cost" env:"FAKEAPI_BCRYPT_COST" env-default:"10"`
	RotateRefresh   bool          `yaml:"rotate_refresh" env:"FAKEAPI_ROTATE_REFRESH" env-default:"false"`
}

// LoggingConfig представляет конфигурацию логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"FAKEAPI_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"FAKEAPI_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	return logger.ParseEnvironment(c.Mode)
}

// ShutdownConfig представляет параметры завершения работы.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"FAKEAPI_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load загружает конфигурацию из envPath (если файл существует) и переменных окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigLoaded,
		zap.String("address", cfg.HTTP.GetAddress()),
		zap.String("prefix", cfg.HTTP.Prefix),
		zap.Duration("access_ttl", cfg.JWT.AccessTokenTTL),
		zap.Bool("rotate_refresh", cfg.JWT.RotateRefresh))

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию, не читая окружение.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:         "127.0.0.1",
			Port:         8000,
			Prefix:       "/api",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		JWT: JWTConfig{
			SecretKey:       "fake-api-insecure-secret",
			AccessTokenTTL:  5 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			BcryptCost:      10,
		},
		Logging:  LoggingConfig{Level: "info", Mode: "development"},
		Shutdown: ShutdownConfig{Timeout: 5 * time.Second},
	}
}
