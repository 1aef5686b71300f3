package app_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/session"
)

type mockAuthAPI struct {
	mock.Mock
}

func (m *mockAuthAPI) Login(ctx context.Context, username, password string) (*entities.TokenResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TokenResponse), args.Error(1)
}

func (m *mockAuthAPI) Register(ctx context.Context, reg *entities.Registration) (*entities.User, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthAPI) GetProfile(ctx context.Context) (*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthAPI) UpdateProfile(ctx context.Context, patch *entities.ProfileUpdate) (*entities.User, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type mockIssueAPI struct {
	mock.Mock
}

func (m *mockIssueAPI) ListIssues(ctx context.Context) ([]entities.Issue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Issue), args.Error(1)
}

func (m *mockIssueAPI) GetIssue(ctx context.Context, id int64) (*entities.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *mockIssueAPI) CreateIssue(ctx context.Context, in *entities.NewIssue) (*entities.Issue, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *mockIssueAPI) UpdateIssue(ctx context.Context, id int64, patch *entities.IssueUpdate) (*entities.Issue, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *mockIssueAPI) DeleteIssue(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockIssueAPI) AssignIssue(ctx context.Context, id, userID int64) (*entities.Issue, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Issue), args.Error(1)
}

func (m *mockIssueAPI) RequestInfo(ctx context.Context, id int64, message string) (*entities.RequestInfoResult, error) {
	args := m.Called(ctx, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RequestInfoResult), args.Error(1)
}

func (m *mockIssueAPI) IssueStats(ctx context.Context) (*entities.IssueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IssueStats), args.Error(1)
}

// fakeSession хранит пару в памяти и уведомляет подписчиков, как rest.Client.
type fakeSession struct {
	mu   sync.Mutex
	pair *entities.CredentialPair
	subs []session.EndedFunc
}

func (f *fakeSession) StartSession(_ context.Context, pair *entities.CredentialPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pair = pair
	return nil
}

func (f *fakeSession) HasSession(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pair != nil, nil
}

func (f *fakeSession) EndSession(ctx context.Context) error {
	f.end(ctx, session.ReasonLogout)
	return nil
}

func (f *fakeSession) OnSessionEnded(fn session.EndedFunc) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[idx] = nil
	}
}

// end имитирует завершение сессии клиентом.
func (f *fakeSession) end(ctx context.Context, reason session.EndReason) {
	f.mu.Lock()
	f.pair = nil
	subs := append([]session.EndedFunc(nil), f.subs...)
	f.mu.Unlock()

	for _, fn := range subs {
		if fn != nil {
			fn(ctx, reason)
		}
	}
}
