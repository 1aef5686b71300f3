package config

import "time"

// BreakerConfig представляет настройки circuit breaker вокруг транспорта.
// ErrorThreshold = 0 отключает breaker.
type BreakerConfig struct {
	ErrorThreshold   int           `yaml:"error_threshold" env:"AITS_BREAKER_THRESHOLD" env-default:"0"`
	Timeout          time.Duration `yaml:"timeout" env:"AITS_BREAKER_TIMEOUT" env-default:"10s"`
	SuccessThreshold int           `yaml:"success_threshold" env:"AITS_BREAKER_SUCCESS_THRESHOLD" env-default:"1"`
}

// Enabled сообщает, включен ли breaker.
func (c *BreakerConfig) Enabled() bool {
	return c.ErrorThreshold > 0
}

// ShutdownConfig представляет параметры завершения работы.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"AITS_SHUTDOWN_TIMEOUT" env-default:"5s"`
}
