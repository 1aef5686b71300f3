package rest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/store"
	"aitsclient/pkg/logger"
)

const (
	refreshPath = "/token/refresh/"
	refreshKey  = "refresh"

	// DefaultRefreshTimeout ограничивает обмен refresh-токена, если таймаут не задан.
	DefaultRefreshTimeout = 5 * time.Second
)

const (
	LogRefreshStarted   = "refreshing access token"
	LogRefreshSucceeded = "access token refreshed"
	LogRefreshReused    = "access token already refreshed, reusing"
	LogRefreshFailed    = "access token refresh failed"
	LogNoRefreshToken   = "no refresh token, ending session"
	LogRefreshAbandoned = "caller stopped waiting for refresh"
)

// refreshCoordinator обменивает refresh-токен на новый access-токен.
// Одновременно выполняется не более одного обмена; остальные вызовы присоединяются к нему.
type refreshCoordinator struct {
	http       *resty.Client
	tokens     store.TokenStore
	terminator *SessionTerminator
	metrics    *Metrics
	timeout    time.Duration

	group singleflight.Group
}

// refresh возвращает действующий access-токен взамен stale.
// cause - исходный ответ 401, он сохраняется в цепочке ошибки при отсутствии refresh-токена.
func (rc *refreshCoordinator) refresh(ctx context.Context, stale string, cause error) (string, error) {
	ch := rc.group.DoChan(refreshKey, func() (any, error) {
		// обмен не отменяется вместе с первым вызвавшим
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rc.timeout)
		defer cancel()
		return rc.exchange(rctx, stale)
	})

	select {
	case res := <-ch:
		if errors.Is(res.Err, ErrNoRefreshToken) {
			return "", fmt.Errorf("%w: %w: %w", ErrSessionExpired, ErrNoRefreshToken, cause)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		logger.Log(ctx).Debug(ctx, LogRefreshAbandoned)
		return "", ctx.Err()
	}
}

// exchange выполняется внутри single-flight.
func (rc *refreshCoordinator) exchange(ctx context.Context, stale string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "refresh"))

	pair, err := rc.tokens.Get(ctx)
	if err != nil {
		return "", rc.fail(ctx, fmt.Errorf("%w: %w", ErrReadTokens, err))
	}

	if pair == nil {
		log.Info(ctx, LogNoRefreshToken)
		rc.metrics.observeRefresh(RefreshNoToken)
		_ = rc.terminator.Terminate(ctx, ReasonNoRefresh)
		return "", ErrNoRefreshToken
	}

	if pair.AccessToken != stale {
		log.Debug(ctx, LogRefreshReused)
		rc.metrics.observeRefresh(RefreshReused)
		return pair.AccessToken, nil
	}

	log.Debug(ctx, LogRefreshStarted)

	var out entities.RefreshResponse
	resp, err := rc.http.R().
		SetContext(ctx).
		SetBody(entities.RefreshRequest{Refresh: pair.RefreshToken}).
		SetResult(&out).
		Post(refreshPath)
	if err != nil {
		return "", rc.fail(ctx, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	if !resp.IsSuccess() {
		return "", rc.fail(ctx, newAPIError(resty.MethodPost, refreshPath, resp.StatusCode(), resp.Body()))
	}
	if out.Access == "" {
		return "", rc.fail(ctx, ErrEmptyAccessToken)
	}

	next := &entities.CredentialPair{AccessToken: out.Access, RefreshToken: pair.RefreshToken}
	if out.Refresh != "" {
		next.RefreshToken = out.Refresh
	}
	if err := rc.tokens.Set(ctx, next); err != nil {
		return "", rc.fail(ctx, err)
	}

	log.Info(ctx, LogRefreshSucceeded, zap.Bool("rotated", out.Refresh != ""))
	rc.metrics.observeRefresh(RefreshSucceeded)
	return next.AccessToken, nil
}

func (rc *refreshCoordinator) fail(ctx context.Context, err error) error {
	logger.Log(ctx).Warn(ctx, LogRefreshFailed, zap.Error(err))
	rc.metrics.observeRefresh(RefreshFailed)
	_ = rc.terminator.Terminate(ctx, ReasonRefreshFailed)
	return fmt.Errorf("%w: %w: %w", ErrSessionExpired, ErrRefreshFailed, err)
}
