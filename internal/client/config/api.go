package config

import (
	"errors"
	"time"
)

// ErrEmptyBaseURL возвращается, если не задан адрес API.
var ErrEmptyBaseURL = errors.New("api base url cannot be empty")

// APIConfig представляет параметры подключения к backend.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" env:"AITS_API_URL" env-default:"http://localhost:8000/api"`
	Timeout        time.Duration `yaml:"timeout" env:"AITS_API_TIMEOUT" env-default:"10s"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env:"AITS_REFRESH_TIMEOUT" env-default:"5s"`
	UserAgent      string        `yaml:"user_agent" env:"AITS_USER_AGENT" env-default:"aits-client"`
	Debug          bool          `yaml:"debug" env:"AITS_API_DEBUG" env-default:"false"`
}
