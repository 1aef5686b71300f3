package tokenstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/internal/client/adapters/tokenstore"
	"aitsclient/internal/client/config"
	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/store"
	dbredis "aitsclient/pkg/db/redis"
)

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return s, rdb
}

func backends(t *testing.T) map[string]func(t *testing.T) store.TokenStore {
	return map[string]func(t *testing.T) store.TokenStore{
		"memory": func(*testing.T) store.TokenStore {
			return tokenstore.NewMemoryStore()
		},
		"file": func(t *testing.T) store.TokenStore {
			s, err := tokenstore.NewDiskStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) store.TokenStore {
			_, rdb := mockRedisServer(t)
			return tokenstore.NewRedisStore(rdb, "test")
		},
	}
}

func TestTokenStoreContract(t *testing.T) {
	ctx := context.Background()
	pair := &entities.CredentialPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store returns nil pair", func(t *testing.T) {
				s := newStore(t)
				got, err := s.Get(ctx)
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("set then get", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, pair))

				got, err := s.Get(ctx)
				require.NoError(t, err)
				assert.Equal(t, pair, got)
			})

			t.Run("set replaces pair", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, pair))
				next := &entities.CredentialPair{AccessToken: "access-2", RefreshToken: "refresh-1"}
				require.NoError(t, s.Set(ctx, next))

				got, err := s.Get(ctx)
				require.NoError(t, err)
				assert.Equal(t, next, got)
			})

			t.Run("rejects incomplete pair", func(t *testing.T) {
				s := newStore(t)
				err := s.Set(ctx, &entities.CredentialPair{AccessToken: "only"})
				require.ErrorIs(t, err, tokenstore.ErrIncompletePair)
			})

			t.Run("clear removes pair and is idempotent", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, pair))
				require.NoError(t, s.Clear(ctx))
				require.NoError(t, s.Clear(ctx))

				got, err := s.Get(ctx)
				require.NoError(t, err)
				assert.Nil(t, got)
			})

			t.Run("returned pair is a copy", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Set(ctx, pair))

				got, err := s.Get(ctx)
				require.NoError(t, err)
				got.AccessToken = "mutated"

				again, err := s.Get(ctx)
				require.NoError(t, err)
				assert.Equal(t, "access-1", again.AccessToken)
			})

			t.Run("concurrent use", func(t *testing.T) {
				s := newStore(t)
				var wg sync.WaitGroup
				for i := range 20 {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						p := &entities.CredentialPair{
							AccessToken:  "access-" + strconv.Itoa(i),
							RefreshToken: "refresh-" + strconv.Itoa(i),
						}
						assert.NoError(t, s.Set(ctx, p))
						got, err := s.Get(ctx)
						assert.NoError(t, err)
						assert.True(t, got.IsComplete())
					}(i)
				}
				wg.Wait()
			})
		})
	}
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	pair := &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}

	t.Run("survives reopen", func(t *testing.T) {
		dir := t.TempDir()
		first, err := tokenstore.NewDiskStore(dir)
		require.NoError(t, err)
		require.NoError(t, first.Set(ctx, pair))

		second, err := tokenstore.NewDiskStore(dir)
		require.NoError(t, err)
		got, err := second.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, pair, got)
	})

	t.Run("files are private", func(t *testing.T) {
		dir := t.TempDir()
		s, err := tokenstore.NewDiskStore(dir)
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, pair))

		for _, key := range []string{tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken} {
			info, err := os.Stat(filepath.Join(dir, key))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), key)
		}
	})

	t.Run("partial pair is absent", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, tokenstore.KeyAccessToken), []byte("orphan"), 0o600))

		s, err := tokenstore.NewDiskStore(dir)
		require.NoError(t, err)
		got, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	pair := &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}

	t.Run("stores both tokens in one hash", func(t *testing.T) {
		mr, rdb := mockRedisServer(t)
		s := tokenstore.NewRedisStore(rdb, "alice")
		require.NoError(t, s.Set(ctx, pair))

		assert.Equal(t, "a", mr.HGet("aits:session:alice", tokenstore.KeyAccessToken))
		assert.Equal(t, "r", mr.HGet("aits:session:alice", tokenstore.KeyRefreshToken))
	})

	t.Run("instances share a namespace", func(t *testing.T) {
		_, rdb := mockRedisServer(t)
		writer := tokenstore.NewRedisStore(rdb, "shared")
		reader := tokenstore.NewRedisStore(rdb, "shared")
		other := tokenstore.NewRedisStore(rdb, "other")

		require.NoError(t, writer.Set(ctx, pair))

		got, err := reader.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, pair, got)

		got, err = other.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("partial hash is absent", func(t *testing.T) {
		mr, rdb := mockRedisServer(t)
		mr.HSet("aits:session:p", tokenstore.KeyRefreshToken, "r")

		got, err := tokenstore.NewRedisStore(rdb, "p").Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("read error is reported", func(t *testing.T) {
		mr, rdb := mockRedisServer(t)
		s := tokenstore.NewRedisStore(rdb, "down")
		mr.Close()

		_, err := s.Get(ctx)
		require.ErrorIs(t, err, tokenstore.ErrReadTokens)
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, closer, err := tokenstore.Open(ctx, &config.StoreConfig{Kind: config.StoreMemory})
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.NoError(t, closer())
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		s, closer, err := tokenstore.Open(ctx, &config.StoreConfig{Kind: config.StoreFile, Dir: dir})
		require.NoError(t, err)
		defer func() { _ = closer() }()

		require.NoError(t, s.Set(ctx, &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}))
		_, err = os.Stat(filepath.Join(dir, tokenstore.KeyAccessToken))
		assert.NoError(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, portStr, _ := strings.Cut(mr.Addr(), ":")
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)

		s, closer, err := tokenstore.Open(ctx, &config.StoreConfig{
			Kind:      config.StoreRedis,
			Namespace: "cli",
			Redis:     config.RedisConfig{Host: host, Port: port, PoolSize: 2},
		})
		require.NoError(t, err)
		defer func() { _ = closer() }()

		require.NoError(t, s.Set(ctx, &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}))
		assert.Equal(t, "a", mr.HGet("aits:session:cli", tokenstore.KeyAccessToken))
	})

	t.Run("redis without host", func(t *testing.T) {
		_, _, err := tokenstore.Open(ctx, &config.StoreConfig{
			Kind:  config.StoreRedis,
			Redis: config.RedisConfig{Port: 6379},
		})
		require.ErrorIs(t, err, dbredis.ErrEmptyHost)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := tokenstore.Open(ctx, &config.StoreConfig{Kind: "etcd"})
		require.ErrorIs(t, err, config.ErrUnknownStoreKind)
	})
}
