package backend

import (
	"context"
	"fmt"
	"net/http"

	"aitsclient/internal/client/adapters/rest"
	"aitsclient/internal/client/domain/entities"
)

// Константы для логирования.
const (
	LogMethodNotifications = "ListNotifications"
	LogMethodMarkRead      = "MarkNotificationRead"
	LogMethodMarkAllRead   = "MarkAllNotificationsRead"
	LogMethodCatalog       = "Catalog"
	LogMethodRoleFields    = "RoleFields"
	LogMethodDashboard     = "Dashboard"

	ErrorFailedToListNotifications = "failed to list notifications"
	ErrorFailedToMarkRead          = "failed to mark notification as read"
	ErrorFailedToLoadCatalog       = "failed to load catalog"
	ErrorFailedToGetRoleFields     = "failed to get role fields"
	ErrorFailedToGetDashboard      = "failed to get dashboard"
)

// ListNotifications возвращает уведомления текущего пользователя.
func (c *Client) ListNotifications(ctx context.Context) ([]entities.Notification, error) {
	var notifications []entities.Notification
	if err := c.rest.Get(ctx, "/notifications/", &notifications); err != nil {
		return nil, fail(ctx, LogMethodNotifications, ErrorFailedToListNotifications, err)
	}
	return notifications, nil
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := c.rest.Post(ctx, fmt.Sprintf("/notifications/%d/mark_read/", id), nil, nil); err != nil {
		return fail(ctx, LogMethodMarkRead, ErrorFailedToMarkRead, err)
	}
	return nil
}

// MarkAllNotificationsRead отмечает прочитанными все уведомления.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.rest.Post(ctx, "/notifications/mark_all_read/", nil, nil); err != nil {
		return fail(ctx, LogMethodMarkAllRead, ErrorFailedToMarkRead, err)
	}
	return nil
}

func (c *Client) stringList(ctx context.Context, path string) ([]string, error) {
	var out []string
	if err := c.rest.Do(ctx, rest.NewRequest(http.MethodGet, path).AsAnonymous(), &out); err != nil {
		return nil, fail(ctx, LogMethodCatalog, ErrorFailedToLoadCatalog, err)
	}
	return out, nil
}

// ListColleges возвращает список колледжей.
func (c *Client) ListColleges(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "/colleges/")
}

// ListCourseUnits возвращает список учебных курсов.
func (c *Client) ListCourseUnits(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "/course-units/")
}

// RoleFields возвращает поля профиля, обязательные для роли.
func (c *Client) RoleFields(ctx context.Context, role entities.Role) (*entities.RoleFields, error) {
	req := rest.NewRequest(http.MethodGet, "/role-fields/").WithQuery("role", string(role)).AsAnonymous()

	var fields entities.RoleFields
	if err := c.rest.Do(ctx, req, &fields); err != nil {
		return nil, fail(ctx, LogMethodRoleFields, ErrorFailedToGetRoleFields, err)
	}
	return &fields, nil
}

// Dashboard возвращает сводку для текущего пользователя.
func (c *Client) Dashboard(ctx context.Context) (*entities.Dashboard, error) {
	var dashboard entities.Dashboard
	if err := c.rest.Get(ctx, "/dashboard/", &dashboard); err != nil {
		return nil, fail(ctx, LogMethodDashboard, ErrorFailedToGetDashboard, err)
	}
	return &dashboard, nil
}
