package http

import (
	"github.com/gofiber/fiber/v3"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/fakeapi/app/http/middleware"
)

func issueValidationError(c fiber.Ctx, err error) error {
	switch err {
	case entities.ErrEmptyTitle:
		return fieldError(c, "title", "This field may not be blank.")
	case entities.ErrInvalidStatus:
		return fieldError(c, "status", "Not a valid choice.")
	default:
		return fieldError(c, "priority", "Not a valid choice.")
	}
}

// ListIssues обрабатывает GET /issues/.
func (h *Handler) ListIssues(c fiber.Ctx) error {
	return c.JSON(h.repo.ListIssues(middleware.CurrentUser(c)))
}

// CreateIssue обрабатывает POST /issues/.
func (h *Handler) CreateIssue(c fiber.Ctx) error {
	var in entities.NewIssue
	if err := c.Bind().JSON(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if err := in.Validate(); err != nil {
		return issueValidationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.repo.CreateIssue(middleware.CurrentUser(c), &in))
}

// GetIssue обрабатывает GET /issues/{id}/.
func (h *Handler) GetIssue(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	issue, err := h.repo.GetIssue(middleware.CurrentUser(c), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(issue)
}

// UpdateIssue обрабатывает PATCH /issues/{id}/.
func (h *Handler) UpdateIssue(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	var patch entities.IssueUpdate
	if err := c.Bind().JSON(&patch); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if err := patch.Validate(); err != nil {
		return issueValidationError(c, err)
	}
	issue, err := h.repo.UpdateIssue(middleware.CurrentUser(c), id, &patch)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(issue)
}

// DeleteIssue обрабатывает DELETE /issues/{id}/.
func (h *Handler) DeleteIssue(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	if err := h.repo.DeleteIssue(middleware.CurrentUser(c), id); err != nil {
		return repoError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type assignRequest struct {
	UserID int64 `json:"user_id"`
}

// AssignIssue обрабатывает POST /issues/{id}/assign/.
func (h *Handler) AssignIssue(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	var req assignRequest
	if err := c.Bind().JSON(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	issue, err := h.repo.AssignIssue(middleware.CurrentUser(c), id, req.UserID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(issue)
}

type requestInfoRequest struct {
	Message string `json:"message"`
}

// RequestInfo обрабатывает POST /issues/{id}/request_info/.
func (h *Handler) RequestInfo(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	var req requestInfoRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
		}
	}
	result, err := h.repo.RequestInfo(middleware.CurrentUser(c), id, req.Message)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(result)
}

// IssueStats обрабатывает GET /issues/stats/.
func (h *Handler) IssueStats(c fiber.Ctx) error {
	return c.JSON(h.repo.IssueStats(middleware.CurrentUser(c)))
}

type commentRequest struct {
	Content string `json:"content"`
}

// ListComments обрабатывает GET /issues/{id}/comments/.
func (h *Handler) ListComments(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	comments, err := h.repo.ListComments(middleware.CurrentUser(c), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(comments)
}

// AddComment обрабатывает POST /issues/{id}/comments/.
func (h *Handler) AddComment(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	var req commentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, ErrorInvalidRequest)
	}
	if req.Content == "" {
		return fieldError(c, "content", "This field may not be blank.")
	}
	comment, err := h.repo.AddComment(middleware.CurrentUser(c), id, req.Content)
	if err != nil {
		return repoError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
