// Package shutdown предоставляет функциональность для корректного завершения приложения
// путем ожидания и обработки сигналов SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"aitsclient/pkg/logger"
)

const (
	msgShutdownStarted  = "shutdown started"
	msgShutdownComplete = "shutdown complete"
	msgShutdownTimeout  = "shutdown timed out"
	msgHookFailed       = "shutdown hook failed"
)

// ErrShutdownTimeout возвращается, если хуки не уложились в timeout.
var ErrShutdownTimeout = errors.New("shutdown timed out")

// Hook выполняется при завершении приложения.
type Hook func(context.Context) error

// Wait блокирует выполнение до получения сигнала SIGINT/SIGTERM или отмены ctx,
// затем параллельно выполняет все хуки в рамках заданного timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Log(ctx).Info(ctx, msgShutdownStarted, zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Log(ctx).Info(ctx, msgShutdownStarted, zap.String("reason", "context done"))
	}

	return Run(context.WithoutCancel(ctx), timeout, hooks...)
}

// Run выполняет хуки параллельно и ждет их завершения не дольше timeout.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	log := logger.Log(ctx)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var wgp sync.WaitGroup
	for i, hook := range hooks {
		wgp.Add(1)
		go func(idx int, fn Hook) {
			defer wgp.Done()
			if err := fn(ctx); err != nil {
				log.Error(ctx, msgHookFailed, zap.Int("hook", idx), zap.Error(err))
			}
		}(i, hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(ctx, msgShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(ctx, msgShutdownTimeout, zap.Duration("timeout", timeout))
		return ErrShutdownTimeout
	}
}
