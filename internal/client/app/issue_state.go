package app

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/api"
	"aitsclient/pkg/logger"
)

// Сообщения для пользователя, выставляемые в Err.
const (
	ErrMsgFetch  = "Failed to load issues. Please try again."
	ErrMsgSubmit = "Failed to submit issue. Please try again."
	ErrMsgModify = "Failed to update issue. Please try again."
	ErrMsgRemove = "Failed to delete issue. Please try again."
	ErrMsgAssign = "Failed to assign issue. Please try again."
)

const (
	methodFetch  = "Fetch"
	methodSubmit = "Submit"
	methodModify = "Modify"
	methodRemove = "Remove"
	methodAssign = "Assign"

	msgIssuesLoaded = "issues loaded"
	msgIssuesReset  = "issues cache cleared"
	msgAutoFetch    = "user changed, fetching issues"
)

// IssueState - локальный кэш обращений текущего пользователя, повторяющий изменения на сервере.
// Мьютекс не удерживается во время запросов к API.
type IssueState struct {
	api   api.IssueAPI
	clock clockwork.Clock

	mu      sync.RWMutex
	issues  []entities.Issue
	loading bool
	errMsg  string

	unsubscribe func()
}

// NewIssueState создает кэш обращений. Если auth не nil, кэш загружается при входе
// пользователя и очищается при выходе.
func NewIssueState(issueAPI api.IssueAPI, auth *AuthState, clock clockwork.Clock) *IssueState {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &IssueState{api: issueAPI, clock: clock, unsubscribe: func() {}}
	if auth != nil {
		s.unsubscribe = auth.OnUserChanged(s.onUserChanged)
	}
	return s
}

// Close отписывает кэш от смены пользователя.
func (s *IssueState) Close() {
	s.unsubscribe()
}

func (s *IssueState) onUserChanged(ctx context.Context, user *entities.User) {
	if user == nil {
		s.reset(ctx)
		return
	}
	logger.Log(ctx).Debug(ctx, msgAutoFetch, zap.Int64("user_id", user.ID))
	_ = s.Fetch(ctx)
}

func (s *IssueState) reset(ctx context.Context) {
	s.mu.Lock()
	s.issues = nil
	s.errMsg = ""
	s.loading = false
	s.mu.Unlock()
	logger.Log(ctx).Debug(ctx, msgIssuesReset)
}

// begin сбрасывает сообщение об ошибке перед операцией.
func (s *IssueState) begin(loading bool) {
	s.mu.Lock()
	s.errMsg = ""
	if loading {
		s.loading = true
	}
	s.mu.Unlock()
}

func (s *IssueState) failed(ctx context.Context, method, msg string, err error) error {
	logger.Log(ctx).With(zap.String("method", method)).Warn(ctx, msg, zap.Error(err))
	s.mu.Lock()
	s.errMsg = msg
	s.loading = false
	s.mu.Unlock()
	return fmt.Errorf("%s: %w", method, err)
}

// Fetch загружает обращения с сервера, заменяя кэш.
func (s *IssueState) Fetch(ctx context.Context) error {
	s.begin(true)

	issues, err := s.api.ListIssues(ctx)
	if err != nil {
		return s.failed(ctx, methodFetch, ErrMsgFetch, err)
	}

	s.mu.Lock()
	s.issues = issues
	s.loading = false
	s.mu.Unlock()

	logger.Log(ctx).Debug(ctx, msgIssuesLoaded, zap.Int("count", len(issues)))
	return nil
}

// Submit создает обращение и добавляет его в конец кэша.
func (s *IssueState) Submit(ctx context.Context, in *entities.NewIssue) (*entities.Issue, error) {
	s.begin(false)

	issue, err := s.api.CreateIssue(ctx, in)
	if err != nil {
		return nil, s.failed(ctx, methodSubmit, ErrMsgSubmit, err)
	}

	s.mu.Lock()
	s.issues = append(s.issues, *issue)
	s.mu.Unlock()
	return issue, nil
}

// Modify обновляет обращение и заменяет его в кэше.
func (s *IssueState) Modify(ctx context.Context, id int64, patch *entities.IssueUpdate) (*entities.Issue, error) {
	s.begin(false)

	issue, err := s.api.UpdateIssue(ctx, id, patch)
	if err != nil {
		return nil, s.failed(ctx, methodModify, ErrMsgModify, err)
	}

	s.replace(issue)
	return issue, nil
}

// Assign назначает обращение сотруднику и заменяет его в кэше.
func (s *IssueState) Assign(ctx context.Context, id, userID int64) (*entities.Issue, error) {
	s.begin(false)

	issue, err := s.api.AssignIssue(ctx, id, userID)
	if err != nil {
		return nil, s.failed(ctx, methodAssign, ErrMsgAssign, err)
	}

	s.replace(issue)
	return issue, nil
}

func (s *IssueState) replace(issue *entities.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.issues {
		if s.issues[i].ID == issue.ID {
			s.issues[i] = *issue
		}
	}
}

// Remove удаляет обращение и убирает его из кэша.
func (s *IssueState) Remove(ctx context.Context, id int64) error {
	s.begin(false)

	if err := s.api.DeleteIssue(ctx, id); err != nil {
		return s.failed(ctx, methodRemove, ErrMsgRemove, err)
	}

	s.mu.Lock()
	s.issues = slices.DeleteFunc(s.issues, func(i entities.Issue) bool { return i.ID == id })
	s.mu.Unlock()
	return nil
}

// Issues возвращает копию кэша.
func (s *IssueState) Issues() []entities.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.issues)
}

// Loading сообщает, выполняется ли загрузка.
func (s *IssueState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err возвращает сообщение об ошибке последней операции или пустую строку.
func (s *IssueState) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// StatusDistribution считает обращения кэша по статусам.
func (s *IssueState) StatusDistribution() entities.StatusCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts entities.StatusCounts
	for _, issue := range s.issues {
		counts.Add(issue.Status)
	}
	return counts
}

// StalePending возвращает ожидающие обращения, созданные раньше чем age назад, старые первыми.
func (s *IssueState) StalePending(age time.Duration) []entities.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	var out []entities.Issue
	for _, issue := range s.issues {
		if issue.Status == entities.StatusPending && now.Sub(issue.CreatedAt) > age {
			out = append(out, issue)
		}
	}
	slices.SortFunc(out, func(a, b entities.Issue) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}
