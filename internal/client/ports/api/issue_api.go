package api

import (
	"context"

	"aitsclient/internal/client/domain/entities"
)

// IssueAPI определяет операции backend над обращениями.
type IssueAPI interface {
	ListIssues(ctx context.Context) ([]entities.Issue, error)

	GetIssue(ctx context.Context, id int64) (*entities.Issue, error)

	CreateIssue(ctx context.Context, issue *entities.NewIssue) (*entities.Issue, error)

	UpdateIssue(ctx context.Context, id int64, patch *entities.IssueUpdate) (*entities.Issue, error)

	DeleteIssue(ctx context.Context, id int64) error

	AssignIssue(ctx context.Context, id, userID int64) (*entities.Issue, error)

	RequestInfo(ctx context.Context, id int64, message string) (*entities.RequestInfoResult, error)

	IssueStats(ctx context.Context) (*entities.IssueStats, error)
}

// CommentAPI определяет операции с комментариями к обращению.
type CommentAPI interface {
	ListComments(ctx context.Context, issueID int64) ([]entities.Comment, error)

	AddComment(ctx context.Context, issueID int64, content string) (*entities.Comment, error)
}

// NotificationAPI определяет операции с уведомлениями текущего пользователя.
type NotificationAPI interface {
	ListNotifications(ctx context.Context) ([]entities.Notification, error)

	MarkNotificationRead(ctx context.Context, id int64) error

	MarkAllNotificationsRead(ctx context.Context) error
}

// CatalogAPI определяет справочные операции и сводку.
type CatalogAPI interface {
	ListColleges(ctx context.Context) ([]string, error)

	ListCourseUnits(ctx context.Context) ([]string, error)

	RoleFields(ctx context.Context, role entities.Role) (*entities.RoleFields, error)

	Dashboard(ctx context.Context) (*entities.Dashboard, error)
}
