package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StoreKind - тип хранилища токенов.
type StoreKind string

// Поддерживаемые хранилища.
const (
	StoreMemory StoreKind = "memory"
	StoreFile   StoreKind = "file"
	StoreRedis  StoreKind = "redis"
)

// ErrUnknownStoreKind возвращается для неизвестного типа хранилища.
var ErrUnknownStoreKind = errors.New("unknown token store kind")

// StoreConfig представляет конфигурацию хранилища токенов.
type StoreConfig struct {
	Kind      StoreKind   `yaml:"kind" env:"AITS_STORE" env-default:"file"`
	Dir       string      `yaml:"dir" env:"AITS_STORE_DIR"`
	Namespace string      `yaml:"namespace" env:"AITS_STORE_NAMESPACE" env-default:"default"`
	Redis     RedisConfig `yaml:"redis"`
}

// Validate проверяет тип хранилища.
func (c *StoreConfig) Validate() error {
	switch c.Kind {
	case StoreMemory, StoreFile, StoreRedis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreKind, c.Kind)
	}
}

// GetDir возвращает каталог файлового хранилища; по умолчанию ~/.config/aits/<namespace>.
func (c *StoreConfig) GetDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "aits", c.Namespace)
}

// RedisConfig представляет конфигурацию Redis для общего хранилища сессии.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"AITS_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"AITS_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"AITS_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"AITS_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"AITS_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"AITS_REDIS_TIMEOUT" env-default:"5s"`
}
