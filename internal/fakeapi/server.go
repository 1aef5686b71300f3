// Package fakeapi содержит in-memory реализацию backend AITS для разработки и тестов клиента.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/fakeapi/adapters/memory"
	"aitsclient/internal/fakeapi/adapters/services"
	httpServer "aitsclient/internal/fakeapi/app/http"
	"aitsclient/internal/fakeapi/app/http/middleware"
	"aitsclient/internal/fakeapi/config"
	"aitsclient/pkg/logger"
)

// SeedPassword - пароль всех предустановленных пользователей.
const SeedPassword = "password123"

// Константы для логирования.
const (
	LogSeeding       = "seeding users"
	LogListening     = "fake api listening"
	LogServerStopped = "fake api stopped"

	ErrSeedUsers = "failed to seed users"
	ErrListen    = "failed to listen"
	ErrShutdown  = "failed to stop fake api"
)

// ErrNotStarted возвращается при обращении к URL до запуска сервера.
var ErrNotStarted = errors.New("server is not started")

// Предустановленные пользователи.
var seedUsers = []entities.Registration{
	{
		Username: "student1", Email: "student1@example.com", FirstName: "Alice", LastName: "Nakato",
		Role: entities.RoleStudent, StudentNumber: "2100700001", College: "College of Computing and Information Sciences",
	},
	{
		Username: "student2", Email: "student2@example.com", FirstName: "Brian", LastName: "Okello",
		Role: entities.RoleStudent, StudentNumber: "2100700002", College: "College of Engineering",
	},
	{
		Username: "lecturer1", Email: "lecturer1@example.com", FirstName: "Grace", LastName: "Achieng",
		Role: entities.RoleLecturer, College: "College of Computing and Information Sciences",
	},
	{
		Username: "registrar1", Email: "registrar1@example.com", FirstName: "Peter", LastName: "Mugisha",
		Role: entities.RoleAcademicRegistrar, College: "College of Computing and Information Sciences",
	},
	{
		Username: "admin", Email: "admin@example.com", FirstName: "Admin", LastName: "User",
		Role: entities.RoleAdmin,
	},
}

// Options - необязательные зависимости сервера.
type Options struct {
	Clock    clockwork.Clock
	Registry *prometheus.Registry
}

// Server - тестовый backend AITS.
type Server struct {
	cfg     *config.Config
	app     *fiber.App
	repo    *memory.Repository
	tokens  *services.TokenService
	refresh *httpServer.RefreshControl
	audit   *middleware.Audit

	url  string
	ln   net.Listener
	done chan error
}

// New создает сервер и заполняет хранилище предустановленными пользователями.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Server, error) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Server{
		cfg:     cfg,
		repo:    memory.NewRepository(clock),
		tokens:  services.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, clock),
		refresh: &httpServer.RefreshControl{},
		audit:   &middleware.Audit{},
	}
	s.refresh.SetRotate(cfg.JWT.RotateRefresh)

	passwords := services.NewPasswordService(cfg.JWT.BcryptCost)
	if err := s.seed(ctx, passwords); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSeedUsers, err)
	}

	s.app = fiber.New(fiber.Config{
		Immutable:    true,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	httpServer.SetupRouter(s.app, httpServer.NewHandler(s.repo, s.tokens, passwords, s.refresh), httpServer.RouterOptions{
		Prefix:   cfg.HTTP.Prefix,
		Audit:    s.audit,
		Registry: opts.Registry,
	})

	return s, nil
}

func (s *Server) seed(ctx context.Context, passwords *services.PasswordService) error {
	logger.Log(ctx).Debug(ctx, LogSeeding, zap.Int("count", len(seedUsers)))

	hash, err := passwords.Hash(SeedPassword)
	if err != nil {
		return err
	}
	for i := range seedUsers {
		if _, err := s.repo.CreateUser(&seedUsers[i], hash); err != nil {
			return err
		}
	}
	return nil
}

// Listen запускает сервер на адресе из конфигурации и блокируется до остановки.
func (s *Server) Listen(ctx context.Context) error {
	addr := s.cfg.HTTP.GetAddress()
	s.url = "http://" + addr + s.cfg.HTTP.Prefix
	logger.Log(ctx).Info(ctx, LogListening, zap.String("address", addr))

	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// StartLocal запускает сервер на свободном порту 127.0.0.1 и ждет его готовности.
func (s *Server) StartLocal(ctx context.Context) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("%s: %w", ErrListen, err)
	}

	s.ln = ln
	s.url = "http://" + ln.Addr().String() + s.cfg.HTTP.Prefix
	s.done = make(chan error, 1)

	ready := make(chan struct{})
	go func() {
		s.done <- s.app.Listener(ln, fiber.ListenConfig{
			DisableStartupMessage: true,
			BeforeServeFunc: func(*fiber.App) error {
				close(ready)
				return nil
			},
		})
	}()

	select {
	case <-ready:
	case err := <-s.done:
		return fmt.Errorf("%s: %w", ErrListen, err)
	case <-ctx.Done():
		_ = ln.Close()
		return fmt.Errorf("%s: %w", ErrListen, ctx.Err())
	}

	logger.Log(ctx).Info(ctx, LogListening, zap.String("address", ln.Addr().String()))
	return nil
}

// URL возвращает базовый адрес API с префиксом, например http://127.0.0.1:8000/api.
func (s *Server) URL() (string, error) {
	if s.url == "" {
		return "", ErrNotStarted
	}
	return strings.TrimSuffix(s.url, "/"), nil
}

// Shutdown останавливает сервер. Ожидание ограничено ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrShutdown, err)
	}
	// Listener мог еще не дойти до Serve, и fasthttp о нем не знает.
	if s.ln != nil {
		_ = s.ln.Close()
	}
	if s.done != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", ErrShutdown, ctx.Err())
		}
	}
	logger.Log(ctx).Info(ctx, LogServerStopped)
	return nil
}

// ExpireAccessTokens делает недействительными все выданные access токены.
func (s *Server) ExpireAccessTokens(ctx context.Context) {
	s.tokens.RevokeAccessTokens(ctx)
}

// RevokeRefreshTokens делает недействительными все выданные refresh токены.
func (s *Server) RevokeRefreshTokens(ctx context.Context) {
	s.tokens.RevokeRefreshTokens(ctx)
}

// IssueTokens выдает пару токенов пользователю в обход POST /token/.
func (s *Server) IssueTokens(ctx context.Context, username string) (*entities.CredentialPair, error) {
	user, _, err := s.repo.UserByUsername(username)
	if err != nil {
		return nil, err
	}
	access, refresh, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &entities.CredentialPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshCalls возвращает количество обращений к POST /token/refresh/.
func (s *Server) RefreshCalls() int64 { return s.refresh.Calls() }

// SetBeforeRefresh задает функцию, выполняемую в начале каждого обмена refresh токена.
func (s *Server) SetBeforeRefresh(fn func()) { s.refresh.SetBefore(fn) }

// SetFailRefresh заставляет обмен refresh токена отвечать 401.
func (s *Server) SetFailRefresh(fail bool) { s.refresh.SetFail(fail) }

// SetRotateRefresh включает ротацию refresh токена при обмене.
func (s *Server) SetRotateRefresh(rotate bool) { s.refresh.SetRotate(rotate) }

// Requests возвращает принятые сервером запросы в порядке поступления.
func (s *Server) Requests() []middleware.AuditEntry { return s.audit.Entries() }

// Repository возвращает хранилище сервера.
func (s *Server) Repository() *memory.Repository { return s.repo }
