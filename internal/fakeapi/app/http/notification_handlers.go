package http

import (
	"github.com/gofiber/fiber/v3"

	"aitsclient/internal/fakeapi/app/http/middleware"
)

// ListNotifications обрабатывает GET /notifications/.
func (h *Handler) ListNotifications(c fiber.Ctx) error {
	return c.JSON(h.repo.ListNotifications(middleware.CurrentUser(c).ID))
}

// MarkNotificationRead обрабатывает POST /notifications/{id}/mark_read/.
func (h *Handler) MarkNotificationRead(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	if err := h.repo.MarkNotificationRead(middleware.CurrentUser(c).ID, id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(fiber.Map{"status": "Notification marked as read"})
}

// MarkAllNotificationsRead обрабатывает POST /notifications/mark_all_read/.
func (h *Handler) MarkAllNotificationsRead(c fiber.Ctx) error {
	h.repo.MarkAllNotificationsRead(middleware.CurrentUser(c).ID)
	return c.JSON(fiber.Map{"status": "All notifications marked as read"})
}
