package rest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"aitsclient/internal/client/ports/session"
	"aitsclient/internal/client/ports/store"
	"aitsclient/pkg/logger"
)

// EndReason - причина завершения сессии.
type EndReason = session.EndReason

// Причины завершения сессии.
const (
	ReasonLogout        = session.ReasonLogout
	ReasonRefreshFailed = session.ReasonRefreshFailed
	ReasonNoRefresh     = session.ReasonNoRefresh
)

// SessionEndedFunc вызывается после очистки хранилища токенов.
type SessionEndedFunc = session.EndedFunc

const (
	LogSessionTerminated = "session terminated"
	LogClearTokensFailed = "failed to clear tokens on session end"
)

// SessionTerminator очищает хранилище токенов и уведомляет подписчиков о завершении сессии.
// Повторный вызов безопасен: очистка идемпотентна, подписчики могут получить уведомление повторно.
type SessionTerminator struct {
	tokens  store.TokenStore
	metrics *Metrics

	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn SessionEndedFunc
}

// NewSessionTerminator создает терминатор для хранилища tokens.
func NewSessionTerminator(tokens store.TokenStore, metrics *Metrics) *SessionTerminator {
	return &SessionTerminator{
		tokens:  tokens,
		metrics: metrics,
	}
}

// OnSessionEnded подписывает fn на завершение сессии. Подписчики вызываются
// в порядке подписки. Возвращает функцию отписки.
func (t *SessionTerminator) OnSessionEnded(fn SessionEndedFunc) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.subs = append(t.subs, subscriber{id: id, fn: fn})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.subs = slices.DeleteFunc(t.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Terminate очищает токены и уведомляет подписчиков.
// Подписчики уведомляются даже при ошибке очистки; ошибка возвращается.
func (t *SessionTerminator) Terminate(ctx context.Context, reason EndReason) error {
	log := logger.Log(ctx).With(zap.String("reason", string(reason)))

	var clearErr error
	if err := t.tokens.Clear(ctx); err != nil {
		log.Error(ctx, LogClearTokensFailed, zap.Error(err))
		clearErr = fmt.Errorf("%s: %w", LogClearTokensFailed, err)
	}

	t.mu.RLock()
	subs := slices.Clone(t.subs)
	t.mu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, reason)
	}

	t.metrics.observeSessionEnd(reason)
	log.Info(ctx, LogSessionTerminated, zap.Int("subscribers", len(subs)))

	return clearErr
}
