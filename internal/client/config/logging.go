package config

import "aitsclient/pkg/logger"

// LoggingConfig представляет конфигурацию логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"AITS_LOGGER_LEVEL" env-default:"warn"`
	Mode  string `yaml:"mode" env:"AITS_LOGGER_MODE" env-default:"production"`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	return logger.ParseEnvironment(c.Mode)
}
