package backend

import (
	"context"
	"fmt"

	"aitsclient/internal/client/domain/entities"
)

// Константы для логирования.
const (
	LogMethodListIssues  = "ListIssues"
	LogMethodGetIssue    = "GetIssue"
	LogMethodCreateIssue = "CreateIssue"
	LogMethodUpdateIssue = "UpdateIssue"
	LogMethodDeleteIssue = "DeleteIssue"
	LogMethodAssignIssue = "AssignIssue"
	LogMethodRequestInfo = "RequestInfo"
	LogMethodIssueStats  = "IssueStats"
	LogMethodComments    = "ListComments"
	LogMethodAddComment  = "AddComment"

	ErrorFailedToListIssues  = "failed to list issues"
	ErrorFailedToGetIssue    = "failed to get issue"
	ErrorFailedToCreateIssue = "failed to create issue"
	ErrorFailedToUpdateIssue = "failed to update issue"
	ErrorFailedToDeleteIssue = "failed to delete issue"
	ErrorFailedToAssignIssue = "failed to assign issue"
	ErrorFailedToRequestInfo = "failed to request information"
	ErrorFailedToGetStats    = "failed to get issue statistics"
	ErrorFailedToGetComments = "failed to list comments"
	ErrorFailedToAddComment  = "failed to add comment"
)

// ListIssues возвращает обращения, видимые текущему пользователю.
func (c *Client) ListIssues(ctx context.Context) ([]entities.Issue, error) {
	var issues []entities.Issue
	if err := c.rest.Get(ctx, "/issues/", &issues); err != nil {
		return nil, fail(ctx, LogMethodListIssues, ErrorFailedToListIssues, err)
	}
	return issues, nil
}

// GetIssue возвращает обращение по идентификатору.
func (c *Client) GetIssue(ctx context.Context, id int64) (*entities.Issue, error) {
	var issue entities.Issue
	if err := c.rest.Get(ctx, issuePath(id), &issue); err != nil {
		return nil, fail(ctx, LogMethodGetIssue, ErrorFailedToGetIssue, err)
	}
	return &issue, nil
}

// CreateIssue создает обращение.
func (c *Client) CreateIssue(ctx context.Context, in *entities.NewIssue) (*entities.Issue, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToCreateIssue, err)
	}

	var issue entities.Issue
	if err := c.rest.Post(ctx, "/issues/", in, &issue); err != nil {
		return nil, fail(ctx, LogMethodCreateIssue, ErrorFailedToCreateIssue, err)
	}
	return &issue, nil
}

// UpdateIssue частично обновляет обращение.
func (c *Client) UpdateIssue(ctx context.Context, id int64, patch *entities.IssueUpdate) (*entities.Issue, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToUpdateIssue, err)
	}

	var issue entities.Issue
	if err := c.rest.Patch(ctx, issuePath(id), patch, &issue); err != nil {
		return nil, fail(ctx, LogMethodUpdateIssue, ErrorFailedToUpdateIssue, err)
	}
	return &issue, nil
}

// DeleteIssue удаляет обращение.
func (c *Client) DeleteIssue(ctx context.Context, id int64) error {
	if err := c.rest.Delete(ctx, issuePath(id)); err != nil {
		return fail(ctx, LogMethodDeleteIssue, ErrorFailedToDeleteIssue, err)
	}
	return nil
}

// AssignIssue назначает обращение сотруднику userID.
func (c *Client) AssignIssue(ctx context.Context, id, userID int64) (*entities.Issue, error) {
	var issue entities.Issue
	body := map[string]int64{"user_id": userID}
	if err := c.rest.Post(ctx, issuePath(id)+"assign/", body, &issue); err != nil {
		return nil, fail(ctx, LogMethodAssignIssue, ErrorFailedToAssignIssue, err)
	}
	return &issue, nil
}

// RequestInfo запрашивает у автора дополнительную информацию. Пустое message
// заменяется сервером стандартным текстом.
func (c *Client) RequestInfo(ctx context.Context, id int64, message string) (*entities.RequestInfoResult, error) {
	var result entities.RequestInfoResult
	body := map[string]string{"message": message}
	if err := c.rest.Post(ctx, issuePath(id)+"request_info/", body, &result); err != nil {
		return nil, fail(ctx, LogMethodRequestInfo, ErrorFailedToRequestInfo, err)
	}
	return &result, nil
}

// IssueStats возвращает статистику обращений.
func (c *Client) IssueStats(ctx context.Context) (*entities.IssueStats, error) {
	var stats entities.IssueStats
	if err := c.rest.Get(ctx, "/issues/stats/", &stats); err != nil {
		return nil, fail(ctx, LogMethodIssueStats, ErrorFailedToGetStats, err)
	}
	return &stats, nil
}

// ListComments возвращает комментарии к обращению.
func (c *Client) ListComments(ctx context.Context, issueID int64) ([]entities.Comment, error) {
	var comments []entities.Comment
	if err := c.rest.Get(ctx, issuePath(issueID)+"comments/", &comments); err != nil {
		return nil, fail(ctx, LogMethodComments, ErrorFailedToGetComments, err)
	}
	return comments, nil
}

// AddComment добавляет комментарий к обращению.
func (c *Client) AddComment(ctx context.Context, issueID int64, content string) (*entities.Comment, error) {
	var comment entities.Comment
	body := map[string]string{"content": content}
	if err := c.rest.Post(ctx, issuePath(issueID)+"comments/", body, &comment); err != nil {
		return nil, fail(ctx, LogMethodAddComment, ErrorFailedToAddComment, err)
	}
	return &comment, nil
}
