package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/internal/client/config"
	"aitsclient/internal/fakeapi"
	fakeconfig "aitsclient/internal/fakeapi/config"
)

func newTestRuntime(t *testing.T) (*Runtime, *bytes.Buffer, *fakeapi.Server) {
	t.Helper()
	ctx := context.Background()

	srv, err := fakeapi.New(ctx, fakeconfig.Default(), fakeapi.Options{})
	require.NoError(t, err)
	require.NoError(t, srv.StartLocal(ctx))
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, srv.Shutdown(shutdownCtx))
	})

	url, err := srv.URL()
	require.NoError(t, err)

	cfg, err := config.Load(ctx, "")
	require.NoError(t, err)
	cfg.API.BaseURL = url
	cfg.Store.Kind = config.StoreMemory

	var out bytes.Buffer
	rt, err := NewRuntime(ctx, cfg, &out, true)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	return rt, &out, srv
}

func TestCommands(t *testing.T) {
	rt, out, srv := newTestRuntime(t)

	require.NoError(t, (&LoginCmd{Username: "student1", Password: fakeapi.SeedPassword}).Run(rt))
	assert.Contains(t, out.String(), "Logged in as student1 (student)")

	out.Reset()
	require.NoError(t, (&IssuesCreateCmd{Title: "Missing marks", Priority: "high"}).Run(rt))
	assert.Contains(t, out.String(), "Missing marks")

	srv.ExpireAccessTokens(context.Background())

	out.Reset()
	require.NoError(t, (&IssuesListCmd{}).Run(rt))
	assert.Contains(t, out.String(), "Missing marks")
	assert.Contains(t, out.String(), "total 1: pending 1")
	assert.Equal(t, int64(1), srv.RefreshCalls())

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(rt))
	assert.Contains(t, out.String(), "student1")

	require.NoError(t, (&LogoutCmd{}).Run(rt))
	require.ErrorIs(t, (&WhoamiCmd{}).Run(rt), errNoUser)
}

func TestShutdown(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	require.NoError(t, rt.Shutdown(time.Second))
	require.NoError(t, rt.Shutdown(time.Second), "second release is a no-op")
}

func TestEmptyPatchIsRejected(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	require.ErrorIs(t, (&ProfileCmd{}).Run(rt), errEmptyPatch)
	require.ErrorIs(t, (&IssuesUpdateCmd{ID: 1}).Run(rt), errEmptyPatch)
}

func TestWriteMetrics(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	require.NoError(t, (&CollegesCmd{}).Run(rt))

	path := filepath.Join(t.TempDir(), "aits.prom")
	require.NoError(t, rt.WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "requests_total")
}
