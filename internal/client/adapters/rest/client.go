// Package rest реализует HTTP-клиент AITS API: подстановку bearer-токена,
// прозрачное обновление токена при 401 с однократным повтором запроса
// и завершение сессии, когда обновление невозможно.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"aitsclient/internal/client/config"
	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/session"
	"aitsclient/internal/client/ports/store"
	"aitsclient/internal/client/resilience"
	"aitsclient/pkg/logger"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "

	DefaultTimeout = 10 * time.Second
)

const (
	LogRequestFailed   = "request failed"
	LogUnauthorized    = "unauthorized response, refreshing"
	LogReplayRejected  = "replayed request rejected, not refreshing again"
	LogResponseError   = "api error response"
	LogRequestComplete = "request complete"
)

// Options задает параметры клиента.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RefreshTimeout time.Duration
	UserAgent      string
	Debug          bool

	// HTTPClient используется как транспорт; nil означает клиент по умолчанию.
	HTTPClient *http.Client
	// Breaker, если задан, отсекает запросы при серии сетевых ошибок.
	Breaker *resilience.CircuitBreaker
	// Metrics, если заданы, считают запросы, обновления и завершения сессии.
	Metrics *Metrics
}

// OptionsFromConfig строит Options из конфигурации API.
func OptionsFromConfig(cfg *config.APIConfig) Options {
	return Options{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		RefreshTimeout: cfg.RefreshTimeout,
		UserAgent:      cfg.UserAgent,
		Debug:          cfg.Debug,
	}
}

// Client выполняет запросы к AITS API от имени текущей сессии.
type Client struct {
	http       *resty.Client
	tokens     store.TokenStore
	terminator *SessionTerminator
	refresher  *refreshCoordinator
	breaker    *resilience.CircuitBreaker
	metrics    *Metrics
}

var _ session.Manager = (*Client)(nil)

type anonymousKey struct{}

// NewClient создает клиент поверх хранилища tokens.
func NewClient(tokens store.TokenStore, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	terminator := NewSessionTerminator(tokens, opts.Metrics)

	c := &Client{
		http:       newResty(opts),
		tokens:     tokens,
		terminator: terminator,
		breaker:    opts.Breaker,
		metrics:    opts.Metrics,
	}
	c.http.OnBeforeRequest(c.attachCredentials)

	// отдельный клиент без bearer-middleware: обновление не должно зависеть от истекшего токена
	c.refresher = &refreshCoordinator{
		http:       newResty(opts),
		tokens:     tokens,
		terminator: terminator,
		metrics:    opts.Metrics,
		timeout:    opts.RefreshTimeout,
	}

	return c
}

func newResty(opts Options) *resty.Client {
	rc := resty.NewWithClient(opts.HTTPClient).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetDebug(opts.Debug).
		SetLogger(restyLogger{})
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Debug {
		rc.OnRequestLog(redactRequestLog)
		rc.OnResponseLog(redactResponseLog)
	}
	return rc
}

// attachCredentials подставляет bearer-токен текущей сессии.
// Явно заданный заголовок Authorization (повтор после обновления) не перезаписывается.
func (c *Client) attachCredentials(_ *resty.Client, r *resty.Request) error {
	ctx := r.Context()

	if r.Header.Get(logger.HeaderRequestID) == "" {
		_, id := logger.EnsureRequestID(ctx)
		r.Header.Set(logger.HeaderRequestID, id)
	}

	if anon, _ := ctx.Value(anonymousKey{}).(bool); anon {
		return nil
	}
	if r.Header.Get(headerAuthorization) != "" {
		return nil
	}

	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadTokens, err)
	}
	if pair != nil {
		r.Header.Set(headerAuthorization, bearerPrefix+pair.AccessToken)
	}
	return nil
}

// Do выполняет запрос и декодирует JSON-ответ в result (если result не nil).
// При 401 токен обновляется один раз и запрос повторяется с новым токеном.
func (c *Client) Do(ctx context.Context, req *Request, result any) error {
	log := logger.Log(ctx).With(
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Bool("retried", req.retried))

	resp, err := c.send(ctx, req)
	if err != nil {
		c.metrics.observeRequest(req.Method, 0)
		log.Warn(ctx, LogRequestFailed, zap.Error(err))
		return err
	}

	status := resp.StatusCode()
	c.metrics.observeRequest(req.Method, status)

	switch {
	case resp.IsSuccess():
		log.Debug(ctx, LogRequestComplete, zap.Int("status", status))
		return decode(req, resp, result)

	case status == http.StatusUnauthorized && !req.Anonymous:
		unauthorized := newAPIError(req.Method, req.Path, status, resp.Body())
		if req.retried {
			log.Info(ctx, LogReplayRejected)
			return unauthorized
		}

		log.Debug(ctx, LogUnauthorized)
		token, err := c.refresher.refresh(ctx, bearerToken(resp.Request.Header), unauthorized)
		if err != nil {
			return err
		}

		c.metrics.observeReplay()
		return c.Do(ctx, req.replay(token), result)

	default:
		apiErr := newAPIError(req.Method, req.Path, status, resp.Body())
		log.Debug(ctx, LogResponseError, zap.Int("status", status), zap.String("detail", apiErr.Detail))
		return apiErr
	}
}

func (c *Client) send(ctx context.Context, req *Request) (*resty.Response, error) {
	rctx := ctx
	if req.Anonymous {
		rctx = context.WithValue(ctx, anonymousKey{}, true)
	}

	r := c.http.R().SetContext(rctx)
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	var resp *resty.Response
	execute := func() error {
		var err error
		resp, err = r.Execute(req.Method, req.Path)
		return err
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, execute)
	} else {
		err = execute()
	}
	if err != nil {
		if errors.Is(err, ErrReadTokens) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	return resp, nil
}

func decode(req *Request, resp *resty.Response, result any) error {
	body := resp.Body()
	if result == nil || len(body) == 0 || resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecodeResponse, req.Method, req.Path, err)
	}
	return nil
}

func bearerToken(h http.Header) string {
	return strings.TrimPrefix(h.Get(headerAuthorization), bearerPrefix)
}

// Get выполняет GET path.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, NewRequest(http.MethodGet, path), result)
}

// Post выполняет POST path с JSON-телом body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, NewRequest(http.MethodPost, path).WithBody(body), result)
}

// Patch выполняет PATCH path с JSON-телом body.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, NewRequest(http.MethodPatch, path).WithBody(body), result)
}

// Delete выполняет DELETE path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, NewRequest(http.MethodDelete, path), nil)
}

// Tokens возвращает хранилище токенов клиента.
func (c *Client) Tokens() store.TokenStore {
	return c.tokens
}

// StartSession сохраняет пару токенов, полученную при входе.
func (c *Client) StartSession(ctx context.Context, pair *entities.CredentialPair) error {
	if err := c.tokens.Set(ctx, pair); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// HasSession сообщает, сохранена ли полная пара токенов.
func (c *Client) HasSession(ctx context.Context) (bool, error) {
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrReadTokens, err)
	}
	return pair != nil, nil
}

// EndSession завершает сессию по инициативе пользователя.
func (c *Client) EndSession(ctx context.Context) error {
	return c.terminator.Terminate(ctx, ReasonLogout)
}

// OnSessionEnded подписывает fn на завершение сессии.
func (c *Client) OnSessionEnded(fn SessionEndedFunc) (unsubscribe func()) {
	return c.terminator.OnSessionEnded(fn)
}

// Terminator возвращает терминатор сессии клиента.
func (c *Client) Terminator() *SessionTerminator {
	return c.terminator
}
