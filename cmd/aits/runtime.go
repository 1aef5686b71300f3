package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aitsclient/internal/client/adapters/backend"
	"aitsclient/internal/client/adapters/rest"
	"aitsclient/internal/client/adapters/tokenstore"
	"aitsclient/internal/client/app"
	"aitsclient/internal/client/config"
	"aitsclient/internal/client/resilience"
	"aitsclient/pkg/logger"
	"aitsclient/pkg/shutdown"
)

const (
	breakerName = "aits-api"

	msgSessionExpired = "Your session has expired, please log in again."

	LogRuntimeReady = "client runtime ready"
	LogStoreClosed  = "token store closed"
	ErrCloseStore   = "failed to close token store"
)

// Runtime связывает хранилище, HTTP клиент и состояния для команд CLI.
type Runtime struct {
	ctx context.Context
	out io.Writer

	client   *rest.Client
	api      *backend.Client
	auth     *app.AuthState
	issues   *app.IssueState
	registry *prometheus.Registry

	closeStore  tokenstore.Closer
	unsubscribe func()

	releaseOnce sync.Once
	releaseErr  error
}

// NewRuntime открывает хранилище токенов и собирает клиент по конфигурации.
// Если withMetrics, счетчики клиента регистрируются в собственном реестре.
func NewRuntime(ctx context.Context, cfg *config.Config, out io.Writer, withMetrics bool) (*Runtime, error) {
	tokens, closeStore, err := tokenstore.Open(ctx, &cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := rest.OptionsFromConfig(&cfg.API)
	if cfg.Breaker.Enabled() {
		opts.Breaker = resilience.NewCircuitBreaker(breakerName, resilience.CircuitBreakerConfig{
			ErrorThreshold:   cfg.Breaker.ErrorThreshold,
			Timeout:          cfg.Breaker.Timeout,
			SuccessThreshold: cfg.Breaker.SuccessThreshold,
		}, nil)
	}

	rt := &Runtime{ctx: ctx, out: out, closeStore: closeStore}
	if withMetrics {
		rt.registry = prometheus.NewRegistry()
		opts.Metrics = rest.NewMetrics(rt.registry)
	}

	rt.client = rest.NewClient(tokens, opts)
	rt.api = backend.NewClient(rt.client)
	rt.auth = app.NewAuthState(rt.api, rt.client)
	rt.issues = app.NewIssueState(rt.api, nil, nil)

	rt.unsubscribe = rt.client.OnSessionEnded(func(_ context.Context, reason rest.EndReason) {
		if reason != rest.ReasonLogout {
			fmt.Fprintln(os.Stderr, msgSessionExpired)
		}
	})

	logger.Log(ctx).Debug(ctx, LogRuntimeReady,
		zap.String("api_url", cfg.API.BaseURL),
		zap.Bool("breaker", opts.Breaker != nil),
		zap.Bool("metrics", withMetrics))

	return rt, nil
}

// Close освобождает ресурсы без ограничения по времени.
func (rt *Runtime) Close() {
	if err := rt.release(rt.ctx); err != nil {
		logger.Log(rt.ctx).Warn(rt.ctx, ErrShutdown, zap.Error(err))
	}
}

// Shutdown освобождает ресурсы, ожидая их закрытия не дольше timeout.
func (rt *Runtime) Shutdown(timeout time.Duration) error {
	return shutdown.Run(context.WithoutCancel(rt.ctx), timeout, rt.release)
}

// release выполняется один раз, повторные вызовы возвращают первый результат.
func (rt *Runtime) release(ctx context.Context) error {
	rt.releaseOnce.Do(func() {
		rt.unsubscribe()
		rt.auth.Close()
		rt.issues.Close()

		if err := rt.closeStore(); err != nil {
			rt.releaseErr = fmt.Errorf("%s: %w", ErrCloseStore, err)
			return
		}
		logger.Log(ctx).Debug(ctx, LogStoreClosed)
	})
	return rt.releaseErr
}

// WriteMetrics сохраняет счетчики в формате textfile collector.
func (rt *Runtime) WriteMetrics(path string) error {
	if rt.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, rt.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
