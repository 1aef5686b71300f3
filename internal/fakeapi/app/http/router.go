package http

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aitsclient/internal/fakeapi/adapters/services"
	"aitsclient/internal/fakeapi/app/http/middleware"
)

// RouterOptions - зависимости маршрутизатора помимо обработчиков.
type RouterOptions struct {
	Prefix   string
	Audit    *middleware.Audit
	Registry *prometheus.Registry
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, h *Handler, opts RouterOptions) {
	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	if opts.Registry != nil {
		app.Use(middleware.NewMetricsMiddleware(opts.Registry))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	if opts.Audit != nil {
		app.Use(opts.Audit.Handler())
	}

	api := app.Group(opts.Prefix)

	// Публичные маршруты.
	api.Post("/token", h.Login)
	api.Post("/token/refresh", h.Refresh)
	api.Post("/register", h.Register)
	api.Get("/colleges", h.ListColleges)
	api.Get("/course-units", h.ListCourseUnits)
	api.Get("/role-fields", h.RoleFields)

	// Защищенные маршруты.
	api.Use(middleware.NewAuthMiddleware(
		func(ctx context.Context, token string) (int64, error) {
			return h.tokens.Validate(ctx, token, services.TokenTypeAccess)
		},
		h.repo.UserByID,
	))

	api.Get("/profile", h.GetProfile)
	api.Patch("/profile", h.UpdateProfile)
	api.Get("/users", h.ListUsers)
	api.Get("/dashboard", h.Dashboard)

	api.Get("/issues", h.ListIssues)
	api.Post("/issues", h.CreateIssue)
	api.Get("/issues/stats", h.IssueStats)
	api.Get("/issues/:id", h.GetIssue)
	api.Patch("/issues/:id", h.UpdateIssue)
	api.Delete("/issues/:id", h.DeleteIssue)
	api.Post("/issues/:id/assign", h.AssignIssue)
	api.Post("/issues/:id/request_info", h.RequestInfo)
	api.Get("/issues/:id/comments", h.ListComments)
	api.Post("/issues/:id/comments", h.AddComment)

	api.Get("/notifications", h.ListNotifications)
	api.Post("/notifications/mark_all_read", h.MarkAllNotificationsRead)
	api.Post("/notifications/:id/mark_read", h.MarkNotificationRead)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Not found.",
		})
	})
}
