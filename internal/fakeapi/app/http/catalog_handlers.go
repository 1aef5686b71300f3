package http

import (
	"github.com/gofiber/fiber/v3"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/fakeapi/app/http/middleware"
)

var colleges = []string{
	"College of Computing and Information Sciences",
	"College of Engineering",
	"College of Business and Management Sciences",
	"College of Education and External Studies",
}

var courseUnits = []string{
	"Introduction to Programming",
	"Data Structures and Algorithms",
	"Database Systems",
	"Software Engineering",
	"Computer Networks",
}

// ListColleges обрабатывает GET /colleges/.
func (h *Handler) ListColleges(c fiber.Ctx) error {
	return c.JSON(colleges)
}

// ListCourseUnits обрабатывает GET /course-units/.
func (h *Handler) ListCourseUnits(c fiber.Ctx) error {
	return c.JSON(courseUnits)
}

// RoleFields обрабатывает GET /role-fields/?role=.
func (h *Handler) RoleFields(c fiber.Ctx) error {
	role := entities.Role(c.Query("role"))
	switch role {
	case "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role parameter is required"})
	case entities.RoleStudent:
		return c.JSON(entities.RoleFields{
			RequiredFields: []string{"student_number", "college", "phone_number"},
			OptionalFields: []string{},
		})
	case entities.RoleLecturer, entities.RoleAcademicRegistrar:
		return c.JSON(entities.RoleFields{
			RequiredFields: []string{"college", "phone_number"},
			OptionalFields: []string{},
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}
}

// Dashboard обрабатывает GET /dashboard/.
func (h *Handler) Dashboard(c fiber.Ctx) error {
	return c.JSON(h.repo.Dashboard(middleware.CurrentUser(c)))
}
