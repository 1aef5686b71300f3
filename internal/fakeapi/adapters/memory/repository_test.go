package memory_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/fakeapi/adapters/memory"
)

type fixture struct {
	repo      *memory.Repository
	clock     clockwork.FakeClock
	student   *entities.User
	other     *entities.User
	lecturer  *entities.User
	registrar *entities.User
	admin     *entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	f := &fixture{repo: memory.NewRepository(clock), clock: clock}

	create := func(username string, role entities.Role, college string) *entities.User {
		user, err := f.repo.CreateUser(&entities.Registration{
			Username:  username,
			FirstName: "First",
			LastName:  username,
			Role:      role,
			College:   college,
		}, "hash")
		require.NoError(t, err)
		return user
	}

	f.student = create("student1", entities.RoleStudent, "COCIS")
	f.other = create("student2", entities.RoleStudent, "CEDAT")
	f.lecturer = create("lecturer1", entities.RoleLecturer, "COCIS")
	f.registrar = create("registrar1", entities.RoleAcademicRegistrar, "COCIS")
	f.admin = create("admin", entities.RoleAdmin, "")
	return f
}

func (f *fixture) issue(t *testing.T, actor *entities.User, title string) *entities.Issue {
	t.Helper()
	f.clock.Advance(time.Second)
	return f.repo.CreateIssue(actor, &entities.NewIssue{Title: title})
}

func TestUsers(t *testing.T) {
	f := newFixture(t)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := f.repo.CreateUser(&entities.Registration{Username: "student1", Role: entities.RoleStudent}, "hash")
		assert.ErrorIs(t, err, memory.ErrUsernameTaken)
	})

	t.Run("lookup by username returns hash", func(t *testing.T) {
		user, hash, err := f.repo.UserByUsername("lecturer1")
		require.NoError(t, err)
		assert.Equal(t, f.lecturer.ID, user.ID)
		assert.Equal(t, "hash", hash)

		_, _, err = f.repo.UserByUsername("nobody")
		assert.ErrorIs(t, err, memory.ErrUserNotFound)
	})

	t.Run("partial profile update", func(t *testing.T) {
		phone := "+256700000000"
		user, err := f.repo.UpdateUser(f.student.ID, &entities.ProfileUpdate{PhoneNumber: &phone})
		require.NoError(t, err)
		assert.Equal(t, phone, user.PhoneNumber)
		assert.Equal(t, "COCIS", user.College)

		_, err = f.repo.UpdateUser(999, &entities.ProfileUpdate{})
		assert.ErrorIs(t, err, memory.ErrUserNotFound)
	})

	t.Run("list by role", func(t *testing.T) {
		all := f.repo.ListUsers("")
		require.Len(t, all, 5)
		assert.Equal(t, f.student.ID, all[0].ID)

		lecturers := f.repo.ListUsers(entities.RoleLecturer)
		require.Len(t, lecturers, 1)
		assert.Equal(t, "First lecturer1", lecturers[0].FullName)
	})
}

func TestIssueVisibility(t *testing.T) {
	f := newFixture(t)

	own := f.issue(t, f.student, "own")
	foreign := f.issue(t, f.other, "foreign")

	_, err := f.repo.AssignIssue(f.registrar, foreign.ID, f.lecturer.ID)
	require.NoError(t, err)

	titles := func(issues []entities.Issue) []string {
		out := make([]string, 0, len(issues))
		for _, i := range issues {
			out = append(out, i.Title)
		}
		return out
	}

	t.Run("student sees own issues", func(t *testing.T) {
		assert.Equal(t, []string{"own"}, titles(f.repo.ListIssues(f.student)))

		_, err := f.repo.GetIssue(f.student, foreign.ID)
		assert.ErrorIs(t, err, memory.ErrNotFound)
	})

	t.Run("lecturer sees assigned issues", func(t *testing.T) {
		assert.Equal(t, []string{"foreign"}, titles(f.repo.ListIssues(f.lecturer)))
	})

	t.Run("registrar and admin see all newest first", func(t *testing.T) {
		assert.Equal(t, []string{"foreign", "own"}, titles(f.repo.ListIssues(f.registrar)))
		assert.Equal(t, []string{"foreign", "own"}, titles(f.repo.ListIssues(f.admin)))
	})

	t.Run("names are rendered", func(t *testing.T) {
		issue, err := f.repo.GetIssue(f.registrar, foreign.ID)
		require.NoError(t, err)
		assert.Equal(t, "First student2", issue.CreatedByName)
		assert.Equal(t, "First lecturer1", issue.AssignedToName)
		require.NotNil(t, issue.AssignedTo)
		assert.Equal(t, f.lecturer.ID, *issue.AssignedTo)
	})

	t.Run("defaults on create", func(t *testing.T) {
		assert.Equal(t, entities.StatusPending, own.Status)
		assert.Equal(t, entities.PriorityMedium, own.Priority)
		assert.Equal(t, "COCIS", own.College)
	})
}

func TestIssueMutations(t *testing.T) {
	t.Run("only owner or registrar may update", func(t *testing.T) {
		f := newFixture(t)
		issue := f.issue(t, f.student, "broken projector")
		_, err := f.repo.AssignIssue(f.registrar, issue.ID, f.lecturer.ID)
		require.NoError(t, err)

		title := "changed"
		_, err = f.repo.UpdateIssue(f.lecturer, issue.ID, &entities.IssueUpdate{Title: &title})
		require.ErrorIs(t, err, memory.ErrForbidden)

		updated, err := f.repo.UpdateIssue(f.student, issue.ID, &entities.IssueUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "changed", updated.Title)
	})

	t.Run("status change notifies creator and assignee", func(t *testing.T) {
		f := newFixture(t)
		issue := f.issue(t, f.student, "missing marks")
		_, err := f.repo.AssignIssue(f.registrar, issue.ID, f.lecturer.ID)
		require.NoError(t, err)

		status := entities.StatusResolved
		_, err = f.repo.UpdateIssue(f.registrar, issue.ID, &entities.IssueUpdate{Status: &status})
		require.NoError(t, err)

		studentNotes := f.repo.ListNotifications(f.student.ID)
		require.NotEmpty(t, studentNotes)
		assert.Equal(t, entities.NotificationStatusChanged, studentNotes[0].NotificationType)
		assert.Contains(t, studentNotes[0].Message, "Resolved")

		lecturerNotes := f.repo.ListNotifications(f.lecturer.ID)
		require.Len(t, lecturerNotes, 2)
		assert.Equal(t, entities.NotificationStatusChanged, lecturerNotes[0].NotificationType)
		assert.Equal(t, entities.NotificationAssigned, lecturerNotes[1].NotificationType)
	})

	t.Run("create notifies registrars", func(t *testing.T) {
		f := newFixture(t)
		f.issue(t, f.student, "timetable clash")

		notes := f.repo.ListNotifications(f.registrar.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, entities.NotificationIssueCreated, notes[0].NotificationType)
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		issue := f.issue(t, f.student, "to delete")

		require.ErrorIs(t, f.repo.DeleteIssue(f.other, issue.ID), memory.ErrNotFound)
		require.NoError(t, f.repo.DeleteIssue(f.student, issue.ID))

		_, err := f.repo.GetIssue(f.student, issue.ID)
		assert.ErrorIs(t, err, memory.ErrNotFound)
	})

	t.Run("assign validates target", func(t *testing.T) {
		f := newFixture(t)
		issue := f.issue(t, f.student, "assign me")

		_, err := f.repo.AssignIssue(f.registrar, issue.ID, 999)
		require.ErrorIs(t, err, memory.ErrUserNotFound)

		_, err = f.repo.AssignIssue(f.registrar, issue.ID, f.other.ID)
		assert.ErrorIs(t, err, memory.ErrNotStaff)
	})
}

func TestRequestInfo(t *testing.T) {
	f := newFixture(t)
	issue := f.issue(t, f.student, "exam result")

	t.Run("only assignee may request", func(t *testing.T) {
		_, err := f.repo.RequestInfo(f.registrar, issue.ID, "")
		assert.ErrorIs(t, err, memory.ErrForbidden)
	})

	_, err := f.repo.AssignIssue(f.registrar, issue.ID, f.lecturer.ID)
	require.NoError(t, err)

	t.Run("default message moves pending to in progress", func(t *testing.T) {
		result, err := f.repo.RequestInfo(f.lecturer, issue.ID, "  ")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "More information is needed to resolve this issue.", result.Comment.Content)
		assert.Equal(t, "First lecturer1", result.Comment.CreatedByName)
		assert.Equal(t, entities.StatusInProgress, result.Issue.Status)

		comments, err := f.repo.ListComments(f.student, issue.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)

		notes := f.repo.ListNotifications(f.student.ID)
		require.NotEmpty(t, notes)
		assert.Equal(t, entities.NotificationCommentAdded, notes[0].NotificationType)
	})
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	issue := f.issue(t, f.student, "commented")
	_, err := f.repo.AssignIssue(f.registrar, issue.ID, f.lecturer.ID)
	require.NoError(t, err)

	_, err = f.repo.AddComment(f.other, issue.ID, "hi")
	require.ErrorIs(t, err, memory.ErrNotFound)

	comment, err := f.repo.AddComment(f.registrar, issue.ID, "looking into it")
	require.NoError(t, err)
	assert.Equal(t, issue.ID, comment.Issue)

	comments, err := f.repo.ListComments(f.lecturer, issue.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "looking into it", comments[0].Content)

	for _, user := range []*entities.User{f.student, f.lecturer} {
		notes := f.repo.ListNotifications(user.ID)
		require.NotEmpty(t, notes)
		assert.Equal(t, entities.NotificationCommentAdded, notes[0].NotificationType)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	f.issue(t, f.student, "first")
	f.issue(t, f.student, "second")

	notes := f.repo.ListNotifications(f.registrar.ID)
	require.Len(t, notes, 2)
	assert.Greater(t, notes[0].ID, notes[1].ID)

	require.ErrorIs(t, f.repo.MarkNotificationRead(f.student.ID, notes[0].ID), memory.ErrNotFound)
	require.NoError(t, f.repo.MarkNotificationRead(f.registrar.ID, notes[0].ID))

	assert.Equal(t, 1, f.repo.MarkAllNotificationsRead(f.registrar.ID))
	assert.Equal(t, 0, f.repo.MarkAllNotificationsRead(f.registrar.ID))
}

func TestStatsAndDashboard(t *testing.T) {
	f := newFixture(t)
	first := f.issue(t, f.student, "first")
	f.issue(t, f.other, "second")

	_, err := f.repo.AssignIssue(f.registrar, first.ID, f.lecturer.ID)
	require.NoError(t, err)
	status := entities.StatusResolved
	_, err = f.repo.UpdateIssue(f.student, first.ID, &entities.IssueUpdate{Status: &status})
	require.NoError(t, err)

	t.Run("student stats have no college breakdown", func(t *testing.T) {
		stats := f.repo.IssueStats(f.student)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.ByStatus[entities.StatusResolved])
		assert.Nil(t, stats.ByCollege)
	})

	t.Run("registrar stats by college", func(t *testing.T) {
		stats := f.repo.IssueStats(f.registrar)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, map[string]int{"COCIS": 1, "CEDAT": 1}, stats.ByCollege)
	})

	t.Run("student dashboard", func(t *testing.T) {
		d := f.repo.Dashboard(f.student)
		require.NotNil(t, d.Issues)
		assert.Equal(t, 1, d.Issues.Total)
		assert.Equal(t, 1, d.Issues.Resolved)
		assert.Len(t, d.RecentIssues, 1)
		assert.Nil(t, d.AssignedIssues)
		assert.Equal(t, 1, d.UnreadNotifications)
	})

	t.Run("lecturer dashboard", func(t *testing.T) {
		d := f.repo.Dashboard(f.lecturer)
		require.NotNil(t, d.AssignedIssues)
		assert.Equal(t, 1, d.AssignedIssues.Total)
		assert.Len(t, d.RecentAssigned, 1)
	})

	t.Run("registrar dashboard", func(t *testing.T) {
		d := f.repo.Dashboard(f.registrar)
		require.NotNil(t, d.AllIssues)
		assert.Equal(t, 2, d.AllIssues.Total)
		assert.Equal(t, []entities.CollegeCount{
			{College: "CEDAT", Count: 1},
			{College: "COCIS", Count: 1},
		}, d.CollegeStats)
		require.Len(t, d.UnassignedIssues, 1)
		assert.Equal(t, "second", d.UnassignedIssues[0].Title)
	})
}
