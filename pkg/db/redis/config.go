// Package redis предоставляет общую реализацию клиента Redis.
package redis

import (
	"errors"
	"net"
	"strconv"
	"time"
)

// Значения по умолчанию должны совпадать с тегами env-default в RedisConfig клиента.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 6379
	DefaultPoolSize = 10
	DefaultTimeout  = 5 * time.Second
)

var (
	ErrEmptyHost   = errors.New("redis host cannot be empty")
	ErrInvalidPort = errors.New("redis port must be between 1 and 65535")
)

// Config содержит настройки подключения к Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	// Timeout ограничивает подключение, чтение и запись; 0 означает DefaultTimeout.
	Timeout time.Duration
}

// DefaultConfig возвращает настройки локального Redis без пароля.
func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		PoolSize: DefaultPoolSize,
		Timeout:  DefaultTimeout,
	}
}

// Validate проверяет адрес подключения.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// Addr возвращает адрес в виде host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
