package memory

import (
	"cmp"
	"slices"

	"aitsclient/internal/client/domain/entities"
)

const recentLimit = 5

// Dashboard собирает сводку для главной страницы actor в зависимости от его роли.
func (r *Repository) Dashboard(actor *entities.User) *entities.Dashboard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := &entities.Dashboard{
		User: entities.DashboardUser{
			ID:      actor.ID,
			Name:    actor.FullName(),
			Role:    actor.Role,
			College: actor.College,
		},
		UnreadNotifications: r.unreadCount(actor.ID),
	}

	switch actor.Role {
	case entities.RoleStudent:
		own := r.filter(func(i *entities.Issue) bool { return i.CreatedBy == actor.ID })
		d.Issues = countStatuses(own)
		d.RecentIssues = r.recent(own)

	case entities.RoleLecturer:
		assigned := r.filter(func(i *entities.Issue) bool {
			return i.AssignedTo != nil && *i.AssignedTo == actor.ID
		})
		d.AssignedIssues = countStatuses(assigned)
		d.RecentAssigned = r.recent(assigned)

	case entities.RoleAcademicRegistrar:
		all := r.filter(func(*entities.Issue) bool { return true })
		d.AllIssues = countStatuses(all)
		d.CollegeStats = r.collegeStats(all)
		d.UnassignedIssues = r.recent(r.filter(func(i *entities.Issue) bool { return i.AssignedTo == nil }))
	}

	return d
}

func (r *Repository) filter(keep func(*entities.Issue) bool) []*entities.Issue {
	out := make([]*entities.Issue, 0)
	for _, issue := range r.issues {
		if keep(issue) {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Repository) recent(issues []*entities.Issue) []entities.Issue {
	rendered := r.renderAll(issues)
	if len(rendered) > recentLimit {
		rendered = rendered[:recentLimit]
	}
	return rendered
}

func (r *Repository) collegeStats(issues []*entities.Issue) []entities.CollegeCount {
	counts := make(map[string]int)
	for _, rec := range r.users {
		if rec.user.College != "" {
			counts[rec.user.College] += 0
		}
	}
	for _, issue := range issues {
		if rec, ok := r.users[issue.CreatedBy]; ok && rec.user.College != "" {
			counts[rec.user.College]++
		}
	}

	out := make([]entities.CollegeCount, 0, len(counts))
	for college, count := range counts {
		out = append(out, entities.CollegeCount{College: college, Count: count})
	}
	slices.SortFunc(out, func(a, b entities.CollegeCount) int { return cmp.Compare(a.College, b.College) })
	return out
}

func countStatuses(issues []*entities.Issue) *entities.StatusCounts {
	var c entities.StatusCounts
	for _, issue := range issues {
		c.Add(issue.Status)
	}
	return &c
}
