package entities

import (
	"errors"
	"time"
)

// IssueStatus - статус обращения.
type IssueStatus string

// Статусы обращений.
const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// Statuses перечисляет статусы в порядке жизненного цикла.
var Statuses = []IssueStatus{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

// Valid проверяет, что статус известен.
func (s IssueStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// Priority - приоритет обращения.
type Priority string

// Приоритеты.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid проверяет, что приоритет известен.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Ошибки домена обращений.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid issue status")
	ErrInvalidPriority = errors.New("invalid issue priority")
)

// Issue - обращение студента.
type Issue struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         IssueStatus `json:"status"`
	Priority       Priority    `json:"priority"`
	CreatedBy      int64       `json:"created_by"`
	CreatedByName  string      `json:"created_by_name,omitempty"`
	AssignedTo     *int64      `json:"assigned_to"`
	AssignedToName string      `json:"assigned_to_name,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	CourseUnit     string      `json:"course_unit,omitempty"`
	College        string      `json:"college,omitempty"`
}

// NewIssue - тело POST /issues/.
type NewIssue struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
	CourseUnit  string   `json:"course_unit,omitempty"`
	College     string   `json:"college,omitempty"`
}

// Validate проверяет поля нового обращения.
func (n *NewIssue) Validate() error {
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if n.Priority != "" && !n.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IssueUpdate - частичное обновление PATCH /issues/{id}/. Nil-поля не меняются.
type IssueUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *IssueStatus `json:"status,omitempty"`
	Priority    *Priority    `json:"priority,omitempty"`
	CourseUnit  *string      `json:"course_unit,omitempty"`
}

// Validate проверяет значения перечислимых полей.
func (u *IssueUpdate) Validate() error {
	if u.Title != nil && *u.Title == "" {
		return ErrEmptyTitle
	}
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidStatus
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IssueStats - ответ GET /issues/stats/.
type IssueStats struct {
	Total     int                 `json:"total"`
	ByStatus  map[IssueStatus]int `json:"by_status"`
	ByCollege map[string]int      `json:"by_college,omitempty"`
}

// Comment - комментарий к обращению.
type Comment struct {
	ID            int64     `json:"id"`
	Issue         int64     `json:"issue"`
	Content       string    `json:"content"`
	CreatedBy     int64     `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RequestInfoResult - ответ POST /issues/{id}/request_info/.
type RequestInfoResult struct {
	Success bool    `json:"success"`
	Comment Comment `json:"comment"`
	Issue   Issue   `json:"issue"`
}
