package memory

import (
	"fmt"
	"strings"

	"aitsclient/internal/client/domain/entities"
)

var statusDisplay = map[entities.IssueStatus]string{
	entities.StatusPending:    "Pending",
	entities.StatusInProgress: "In Progress",
	entities.StatusResolved:   "Resolved",
	entities.StatusClosed:     "Closed",
}

// ListIssues возвращает видимые actor обращения, новые первыми.
func (r *Repository) ListIssues(actor *entities.User) []entities.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.renderAll(r.scope(actor))
}

// scope вызывается под r.mu.
func (r *Repository) scope(actor *entities.User) []*entities.Issue {
	out := make([]*entities.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		if canSee(actor, issue) {
			out = append(out, issue)
		}
	}
	return out
}

// GetIssue возвращает обращение, если оно видно actor.
func (r *Repository) GetIssue(actor *entities.User, id int64) (*entities.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, err := r.visibleIssue(actor, id)
	if err != nil {
		return nil, err
	}
	out := r.render(issue)
	return &out, nil
}

// CreateIssue создает обращение от имени actor и уведомляет регистраторов.
func (r *Repository) CreateIssue(actor *entities.User, in *entities.NewIssue) *entities.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.nextIssueID++
	issue := &entities.Issue{
		ID:          r.nextIssueID,
		Title:       in.Title,
		Description: in.Description,
		Status:      entities.StatusPending,
		Priority:    in.Priority,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CourseUnit:  in.CourseUnit,
		College:     in.College,
	}
	if issue.Priority == "" {
		issue.Priority = entities.PriorityMedium
	}
	if issue.College == "" {
		issue.College = actor.College
	}
	r.issues[issue.ID] = issue

	for _, rec := range r.users {
		if rec.user.Role == entities.RoleAcademicRegistrar {
			r.notify(rec.user.ID, entities.NotificationIssueCreated, issue.ID,
				fmt.Sprintf("New issue '%s' has been created by %s", issue.Title, actor.FullName()))
		}
	}

	out := r.render(issue)
	return &out
}

// UpdateIssue применяет частичное обновление. Изменять может автор, регистратор или администратор.
func (r *Repository) UpdateIssue(actor *entities.User, id int64, patch *entities.IssueUpdate) (*entities.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, err := r.visibleIssue(actor, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, issue) {
		return nil, ErrForbidden
	}

	oldStatus := issue.Status
	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.CourseUnit != nil {
		issue.CourseUnit = *patch.CourseUnit
	}
	issue.UpdatedAt = r.clock.Now()

	if issue.Status != oldStatus {
		display := statusDisplay[issue.Status]
		r.notify(issue.CreatedBy, entities.NotificationStatusChanged, issue.ID,
			fmt.Sprintf("Status of your issue '%s' has been changed to %s", issue.Title, display))
		if issue.AssignedTo != nil && *issue.AssignedTo != issue.CreatedBy {
			r.notify(*issue.AssignedTo, entities.NotificationStatusChanged, issue.ID,
				fmt.Sprintf("Status of issue '%s' has been changed to %s", issue.Title, display))
		}
	}

	out := r.render(issue)
	return &out, nil
}

// DeleteIssue удаляет обращение вместе с комментариями.
func (r *Repository) DeleteIssue(actor *entities.User, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, err := r.visibleIssue(actor, id)
	if err != nil {
		return err
	}
	if !canModify(actor, issue) {
		return ErrForbidden
	}

	delete(r.issues, id)
	delete(r.comments, id)
	return nil
}

// AssignIssue назначает обращение сотруднику userID.
func (r *Repository) AssignIssue(actor *entities.User, id, userID int64) (*entities.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, err := r.visibleIssue(actor, id)
	if err != nil {
		return nil, err
	}
	rec, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if !rec.user.Role.IsStaff() {
		return nil, ErrNotStaff
	}

	assigned := userID
	issue.AssignedTo = &assigned
	issue.UpdatedAt = r.clock.Now()

	r.notify(userID, entities.NotificationAssigned, issue.ID,
		fmt.Sprintf("Issue '%s' has been assigned to you by %s", issue.Title, actor.FullName()))

	out := r.render(issue)
	return &out, nil
}

// RequestInfo добавляет комментарий с запросом информации от назначенного сотрудника
// и переводит ожидающее обращение в работу.
func (r *Repository) RequestInfo(actor *entities.User, id int64, message string) (*entities.RequestInfoResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, err := r.visibleIssue(actor, id)
	if err != nil {
		return nil, err
	}
	if issue.AssignedTo == nil || *issue.AssignedTo != actor.ID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(message) == "" {
		message = defaultRequestInfoMessage
	}

	comment := r.addComment(actor, issue, message)
	r.notify(issue.CreatedBy, entities.NotificationCommentAdded, issue.ID,
		fmt.Sprintf("A lecturer has requested more information on your issue '%s'", issue.Title))

	if issue.Status == entities.StatusPending {
		issue.Status = entities.StatusInProgress
		issue.UpdatedAt = r.clock.Now()
	}

	return &entities.RequestInfoResult{
		Success: true,
		Comment: r.renderComment(comment),
		Issue:   r.render(issue),
	}, nil
}

// IssueStats считает видимые обращения по статусам; регистратор дополнительно получает разбивку по колледжам.
func (r *Repository) IssueStats(actor *entities.User) *entities.IssueStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issues := r.scope(actor)
	stats := &entities.IssueStats{
		Total:    len(issues),
		ByStatus: make(map[entities.IssueStatus]int),
	}
	for _, issue := range issues {
		stats.ByStatus[issue.Status]++
	}

	if actor.Role == entities.RoleAcademicRegistrar {
		stats.ByCollege = make(map[string]int)
		for _, issue := range issues {
			college := "Unknown"
			if rec, ok := r.users[issue.CreatedBy]; ok && rec.user.College != "" {
				college = rec.user.College
			}
			stats.ByCollege[college]++
		}
	}
	return stats
}
