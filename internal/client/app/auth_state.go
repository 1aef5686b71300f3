// Package app содержит состояние клиента: текущего пользователя и кэш обращений.
package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/api"
	"aitsclient/internal/client/ports/session"
	"aitsclient/pkg/logger"
)

const (
	methodRestore       = "Restore"
	methodLogin         = "Login"
	methodRegister      = "Register"
	methodLogout        = "Logout"
	methodUpdateProfile = "UpdateProfile"

	msgNoStoredSession = "no stored session"
	msgSessionRestored = "session restored"
	msgRestoreFailed   = "stored session is not usable, clearing"
	msgLoginAttempt    = "login attempt"
	msgUserLoggedIn    = "user logged in"
	msgProfileFallback = "token response has no user, fetching profile"
	msgUserRegistered  = "user registered"
	msgUserLoggedOut   = "user logged out"
	msgSessionEnded    = "session ended"

	errCtxReadingSession  = "reading session"
	errCtxRestoring       = "restoring session"
	errCtxLoggingIn       = "logging in"
	errCtxStartingSession = "starting session"
	errCtxFetchingProfile = "fetching profile"
	errCtxRegistering     = "registering"
	errCtxLoggingOut      = "logging out"
	errCtxUpdatingProfile = "updating profile"
)

// UserChangedFunc вызывается при входе (user != nil) и выходе (user == nil).
type UserChangedFunc func(ctx context.Context, user *entities.User)

// AuthState хранит текущего пользователя и управляет входом и выходом.
// Завершение сессии клиентом (например, неудачное обновление токена) сбрасывает пользователя.
type AuthState struct {
	api     api.AuthAPI
	session session.Manager

	mu        sync.RWMutex
	user      *entities.User
	loading   bool
	nextID    int
	listeners []userListener

	unsubscribe func()
}

type userListener struct {
	id int
	fn UserChangedFunc
}

// NewAuthState создает состояние аутентификации и подписывается на завершение сессии.
func NewAuthState(authAPI api.AuthAPI, sess session.Manager) *AuthState {
	s := &AuthState{api: authAPI, session: sess}
	s.unsubscribe = sess.OnSessionEnded(s.onSessionEnded)
	return s
}

// Close отписывает состояние от событий сессии.
func (s *AuthState) Close() {
	s.unsubscribe()
}

func (s *AuthState) onSessionEnded(ctx context.Context, reason session.EndReason) {
	logger.Log(ctx).Info(ctx, msgSessionEnded, zap.String("reason", string(reason)))
	s.setUser(ctx, nil)
}

// OnUserChanged подписывает fn на смену пользователя. Возвращает функцию отписки.
func (s *AuthState) OnUserChanged(fn UserChangedFunc) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, userListener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(l userListener) bool { return l.id == id })
	}
}

func (s *AuthState) setUser(ctx context.Context, user *entities.User) {
	s.mu.Lock()
	if s.user == nil && user == nil {
		s.mu.Unlock()
		return
	}
	s.user = user
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(ctx, user)
	}
}

func (s *AuthState) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// User возвращает копию текущего пользователя или nil.
func (s *AuthState) User() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated сообщает, известен ли текущий пользователь.
func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading сообщает, выполняется ли вход или восстановление сессии.
func (s *AuthState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Restore восстанавливает пользователя по сохраненной сессии.
// Если профиль получить не удалось, сессия завершается.
func (s *AuthState) Restore(ctx context.Context) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRestore))

	s.setLoading(true)
	defer s.setLoading(false)

	ok, err := s.session.HasSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxReadingSession, err)
	}
	if !ok {
		log.Debug(ctx, msgNoStoredSession)
		return nil, nil
	}

	user, err := s.api.GetProfile(ctx)
	if err != nil {
		log.Warn(ctx, msgRestoreFailed, zap.Error(err))
		if endErr := s.session.EndSession(ctx); endErr != nil {
			log.Error(ctx, errCtxLoggingOut, zap.Error(endErr))
		}
		s.setUser(ctx, nil)
		return nil, fmt.Errorf("%s: %w", errCtxRestoring, err)
	}

	log.Info(ctx, msgSessionRestored, zap.String("username", user.Username))
	s.setUser(ctx, user)
	return user, nil
}

// Login выполняет вход и сохраняет пару токенов. Данные пользователя берутся из ответа
// на вход, если он содержит id и role, иначе запрашивается профиль.
func (s *AuthState) Login(ctx context.Context, username, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("username", username))
	log.Debug(ctx, msgLoginAttempt)

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoggingIn, err)
	}
	if err := s.session.StartSession(ctx, resp.Pair()); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxStartingSession, err)
	}

	user, ok := resp.User()
	if ok {
		if user.Username == "" {
			user.Username = username
		}
	} else {
		log.Debug(ctx, msgProfileFallback)
		if user, err = s.api.GetProfile(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxFetchingProfile, err)
		}
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("role", string(user.Role)))
	s.setUser(ctx, user)
	return s.User(), nil
}

// Register создает учетную запись и выполняет вход под ней.
func (s *AuthState) Register(ctx context.Context, reg *entities.Registration) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", reg.Username))

	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegistering, err)
	}
	if _, err := s.api.Register(ctx, reg); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRegistering, err)
	}
	log.Info(ctx, msgUserRegistered)

	return s.Login(ctx, reg.Username, reg.Password)
}

// Logout завершает сессию: токены удаляются, подписчики уведомляются.
func (s *AuthState) Logout(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))

	err := s.session.EndSession(ctx)
	s.setUser(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxLoggingOut, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// UpdateProfile частично обновляет профиль и текущего пользователя.
func (s *AuthState) UpdateProfile(ctx context.Context, patch *entities.ProfileUpdate) (*entities.User, error) {
	logger.Log(ctx).Debug(ctx, methodUpdateProfile)

	user, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingProfile, err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return s.User(), nil
}
