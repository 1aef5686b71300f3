// Package memory содержит in-memory хранилище тестового backend AITS.
package memory

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"aitsclient/internal/client/domain/entities"
)

// Ошибки хранилища.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("you do not have permission to perform this action")
	ErrUsernameTaken = errors.New("a user with that username already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotStaff      = errors.New("can only assign to staff members")
)

const defaultRequestInfoMessage = "More information is needed to resolve this issue."

type userRecord struct {
	user         entities.User
	passwordHash string
}

// Repository хранит пользователей, обращения, комментарии и уведомления в памяти.
// Видимость обращений зависит от роли: студент видит свои, преподаватель - свои
// и назначенные ему, регистратор и администратор - все.
type Repository struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	nextUserID         int64
	nextIssueID        int64
	nextCommentID      int64
	nextNotificationID int64

	users         map[int64]*userRecord
	byUsername    map[string]int64
	issues        map[int64]*entities.Issue
	comments      map[int64][]*entities.Comment
	notifications map[int64]*entities.Notification
}

// NewRepository создает пустое хранилище.
func NewRepository(clock clockwork.Clock) *Repository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repository{
		clock:         clock,
		users:         make(map[int64]*userRecord),
		byUsername:    make(map[string]int64),
		issues:        make(map[int64]*entities.Issue),
		comments:      make(map[int64][]*entities.Comment),
		notifications: make(map[int64]*entities.Notification),
	}
}

// canSee проверяет видимость обращения для роли actor.
func canSee(actor *entities.User, issue *entities.Issue) bool {
	switch {
	case actor.Role.SeesAllIssues():
		return true
	case issue.CreatedBy == actor.ID:
		return true
	case actor.Role == entities.RoleLecturer:
		return issue.AssignedTo != nil && *issue.AssignedTo == actor.ID
	default:
		return false
	}
}

func canModify(actor *entities.User, issue *entities.Issue) bool {
	return issue.CreatedBy == actor.ID || actor.Role.SeesAllIssues()
}

// visibleIssue вызывается под r.mu.
func (r *Repository) visibleIssue(actor *entities.User, id int64) (*entities.Issue, error) {
	issue, ok := r.issues[id]
	if !ok || !canSee(actor, issue) {
		return nil, ErrNotFound
	}
	return issue, nil
}

// render возвращает копию обращения с заполненными именами. Вызывается под r.mu.
func (r *Repository) render(issue *entities.Issue) entities.Issue {
	out := *issue
	if rec, ok := r.users[issue.CreatedBy]; ok {
		out.CreatedByName = rec.user.FullName()
	}
	if issue.AssignedTo != nil {
		assigned := *issue.AssignedTo
		out.AssignedTo = &assigned
		if rec, ok := r.users[assigned]; ok {
			out.AssignedToName = rec.user.FullName()
		}
	}
	return out
}

func (r *Repository) renderAll(issues []*entities.Issue) []entities.Issue {
	slices.SortFunc(issues, func(a, b *entities.Issue) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	out := make([]entities.Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, r.render(issue))
	}
	return out
}

// notify вызывается под r.mu на запись.
func (r *Repository) notify(userID int64, typ entities.NotificationType, issueID int64, message string) {
	r.nextNotificationID++
	id := issueID
	r.notifications[r.nextNotificationID] = &entities.Notification{
		ID:               r.nextNotificationID,
		User:             userID,
		NotificationType: typ,
		Issue:            &id,
		Message:          message,
		CreatedAt:        r.clock.Now(),
	}
}

func (r *Repository) fullName(id int64) string {
	if rec, ok := r.users[id]; ok {
		return rec.user.FullName()
	}
	return ""
}
