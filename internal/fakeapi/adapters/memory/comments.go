package memory

import (
	"fmt"

	"aitsclient/internal/client/domain/entities"
)

// addComment вызывается под r.mu на запись.
func (r *Repository) addComment(actor *entities.User, issue *entities.Issue, content string) *entities.Comment {
	r.nextCommentID++
	comment := &entities.Comment{
		ID:        r.nextCommentID,
		Issue:     issue.ID,
		Content:   content,
		CreatedBy: actor.ID,
		CreatedAt: r.clock.Now(),
	}
	r.comments[issue.ID] = append(r.comments[issue.ID], comment)
	return comment
}

func (r *Repository) renderComment(c *entities.Comment) entities.Comment {
	out := *c
	out.CreatedByName = r.fullName(c.CreatedBy)
	return out
}

// ListComments возвращает комментарии видимого обращения в порядке добавления.
func (r *Repository) ListComments(actor *entities.User, issueID int64) ([]entities.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := r.visibleIssue(actor, issueID); err != nil {
		return nil, err
	}

	out := make([]entities.Comment, 0, len(r.comments[issueID]))
	for _, c := range r.comments[issueID] {
		out = append(out, r.renderComment(c))
	}
	return out, nil
}

// AddComment добавляет комментарий и уведомляет автора и исполнителя обращения.
func (r *Repository) AddComment(actor *entities.User, issueID int64, content string) (*entities.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, err := r.visibleIssue(actor, issueID)
	if err != nil {
		return nil, err
	}

	comment := r.addComment(actor, issue, content)

	if issue.CreatedBy != actor.ID {
		r.notify(issue.CreatedBy, entities.NotificationCommentAdded, issue.ID,
			fmt.Sprintf("New comment on your issue '%s'", issue.Title))
	}
	if issue.AssignedTo != nil && *issue.AssignedTo != actor.ID && *issue.AssignedTo != issue.CreatedBy {
		r.notify(*issue.AssignedTo, entities.NotificationCommentAdded, issue.ID,
			fmt.Sprintf("New comment on issue '%s' assigned to you", issue.Title))
	}

	out := r.renderComment(comment)
	return &out, nil
}
