package redis_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/pkg/db/redis"
)

func TestClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := redis.DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = port

	client := redis.NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()))

	require.NoError(t, client.RawClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestClientPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := redis.DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = port
	client := redis.NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()

	assert.Error(t, client.Ping(context.Background()))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*redis.Config)
		wantErr error
	}{
		{name: "defaults", modify: func(*redis.Config) {}},
		{name: "empty host", modify: func(c *redis.Config) { c.Host = "" }, wantErr: redis.ErrEmptyHost},
		{name: "zero port", modify: func(c *redis.Config) { c.Port = 0 }, wantErr: redis.ErrInvalidPort},
		{name: "port too large", modify: func(c *redis.Config) { c.Port = 70000 }, wantErr: redis.ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := redis.DefaultConfig()
			tt.modify(cfg)
			if tt.wantErr == nil {
				assert.NoError(t, cfg.Validate())
				return
			}
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := redis.DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())

	cfg.Host = "::1"
	assert.Equal(t, "[::1]:6379", cfg.Addr())
}
