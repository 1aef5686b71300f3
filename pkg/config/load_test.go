package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/pkg/config"
)

type sampleConfig struct {
	URL     string        `env:"SAMPLE_URL" env-default:"http://localhost"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" env-default:"3s"`
	Retries int           `env:"SAMPLE_RETRIES" env-default:"2"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults without env file", func(t *testing.T) {
		cfg, err := config.Load[sampleConfig](context.Background(), "test", "")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost", cfg.URL)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, 2, cfg.Retries)
	})

	t.Run("missing env file falls back to environment", func(t *testing.T) {
		t.Setenv("SAMPLE_URL", "http://from-env")

		cfg, err := config.Load[sampleConfig](context.Background(), "test", filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
		assert.Equal(t, "http://from-env", cfg.URL)
	})

	t.Run("reads env file", func(t *testing.T) {
		// cleanenv экспортирует значения из файла в окружение процесса
		t.Setenv("SAMPLE_URL", "")
		t.Setenv("SAMPLE_RETRIES", "")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("SAMPLE_URL=http://from-file\nSAMPLE_RETRIES=5\n"), 0o600))

		cfg, err := config.Load[sampleConfig](context.Background(), "test", path)
		require.NoError(t, err)
		assert.Equal(t, "http://from-file", cfg.URL)
		assert.Equal(t, 5, cfg.Retries)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("SAMPLE_RETRIES", "many")

		cfg, err := config.Load[sampleConfig](context.Background(), "test", "")
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}
