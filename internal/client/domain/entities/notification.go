package entities

import "time"

// NotificationType - тип уведомления.
type NotificationType string

// Типы уведомлений.
const (
	NotificationIssueCreated  NotificationType = "issue_created"
	NotificationIssueUpdated  NotificationType = "issue_updated"
	NotificationAssigned      NotificationType = "assigned"
	NotificationStatusChanged NotificationType = "status_changed"
	NotificationCommentAdded  NotificationType = "comment_added"
)

// Notification - уведомление пользователя.
type Notification struct {
	ID               int64            `json:"id"`
	User             int64            `json:"user"`
	NotificationType NotificationType `json:"notification_type"`
	Issue            *int64           `json:"issue"`
	Message          string           `json:"message"`
	IsRead           bool             `json:"is_read"`
	CreatedAt        time.Time        `json:"created_at"`
}
