package entities

// DashboardUser - краткие данные пользователя в ответе GET /dashboard/.
type DashboardUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	College string `json:"college,omitempty"`
}

// StatusCounts - количество обращений по статусам.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// Add учитывает обращение с указанным статусом.
func (c *StatusCounts) Add(status IssueStatus) {
	c.Total++
	switch status {
	case StatusPending:
		c.Pending++
	case StatusInProgress:
		c.InProgress++
	case StatusResolved:
		c.Resolved++
	case StatusClosed:
		c.Closed++
	}
}

// CollegeCount - количество обращений по колледжу.
type CollegeCount struct {
	College string `json:"college"`
	Count   int    `json:"count"`
}

// Dashboard - ответ GET /dashboard/. Набор заполненных блоков зависит от роли.
type Dashboard struct {
	User DashboardUser `json:"user"`

	// student
	Issues       *StatusCounts `json:"issues,omitempty"`
	RecentIssues []Issue       `json:"recent_issues,omitempty"`

	// lecturer
	AssignedIssues *StatusCounts `json:"assigned_issues,omitempty"`
	RecentAssigned []Issue       `json:"recent_assigned,omitempty"`

	// academic_registrar
	AllIssues        *StatusCounts  `json:"all_issues,omitempty"`
	CollegeStats     []CollegeCount `json:"college_stats,omitempty"`
	UnassignedIssues []Issue        `json:"unassigned_issues,omitempty"`

	UnreadNotifications int `json:"unread_notifications"`
}

// Counts возвращает блок счетчиков, актуальный для роли пользователя.
func (d *Dashboard) Counts() *StatusCounts {
	switch {
	case d.Issues != nil:
		return d.Issues
	case d.AssignedIssues != nil:
		return d.AssignedIssues
	case d.AllIssues != nil:
		return d.AllIssues
	default:
		return &StatusCounts{}
	}
}

// Recent возвращает список последних обращений, актуальный для роли пользователя.
func (d *Dashboard) Recent() []Issue {
	switch {
	case d.RecentIssues != nil:
		return d.RecentIssues
	case d.RecentAssigned != nil:
		return d.RecentAssigned
	default:
		return d.UnassignedIssues
	}
}
