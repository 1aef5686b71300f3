package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aitsclient/internal/client/domain/entities"
)

func TestCredentialPairIsComplete(t *testing.T) {
	tests := []struct {
		name string
		pair *entities.CredentialPair
		want bool
	}{
		{"nil", nil, false},
		{"empty", &entities.CredentialPair{}, false},
		{"access only", &entities.CredentialPair{AccessToken: "a"}, false},
		{"refresh only", &entities.CredentialPair{RefreshToken: "r"}, false},
		{"both", &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pair.IsComplete())
		})
	}
}

func TestTokenResponseUser(t *testing.T) {
	t.Run("with user fields", func(t *testing.T) {
		resp := entities.TokenResponse{
			Access: "a", Refresh: "r", ID: 7, Username: "jdoe",
			Role: entities.RoleStudent, FirstName: "John", LastName: "Doe",
		}

		user, ok := resp.User()
		assert.True(t, ok)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "John Doe", user.FullName())
		assert.Equal(t, &entities.CredentialPair{AccessToken: "a", RefreshToken: "r"}, resp.Pair())
	})

	t.Run("tokens only", func(t *testing.T) {
		resp := entities.TokenResponse{Access: "a", Refresh: "r"}
		_, ok := resp.User()
		assert.False(t, ok)
	})
}

func TestRegistrationValidate(t *testing.T) {
	base := func() entities.Registration {
		return entities.Registration{
			Username: "jdoe", Password: "secret", Role: entities.RoleStudent,
			StudentNumber: "2100700001", College: "College of Engineering",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *entities.Registration)
		wantErr error
	}{
		{"valid student", func(*entities.Registration) {}, nil},
		{"empty username", func(r *entities.Registration) { r.Username = "" }, entities.ErrEmptyUsername},
		{"empty password", func(r *entities.Registration) { r.Password = "" }, entities.ErrEmptyPassword},
		{"unknown role", func(r *entities.Registration) { r.Role = "dean" }, entities.ErrInvalidRole},
		{"student without number", func(r *entities.Registration) { r.StudentNumber = "" }, entities.ErrStudentNumberReq},
		{"lecturer without college", func(r *entities.Registration) {
			r.Role = entities.RoleLecturer
			r.College = ""
		}, entities.ErrCollegeRequired},
		{"admin without college", func(r *entities.Registration) {
			r.Role = entities.RoleAdmin
			r.College = ""
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := base()
			tt.mutate(&reg)
			err := reg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("empty role defaults to student", func(t *testing.T) {
		reg := base()
		reg.Role = ""
		assert.NoError(t, reg.Validate())
		assert.Equal(t, entities.RoleStudent, reg.Role)
	})
}

func TestIssueUpdateValidate(t *testing.T) {
	empty := ""
	bad := entities.IssueStatus("archived")
	resolved := entities.StatusResolved
	low := entities.PriorityLow

	assert.ErrorIs(t, (&entities.IssueUpdate{Title: &empty}).Validate(), entities.ErrEmptyTitle)
	assert.ErrorIs(t, (&entities.IssueUpdate{Status: &bad}).Validate(), entities.ErrInvalidStatus)
	assert.NoError(t, (&entities.IssueUpdate{Status: &resolved, Priority: &low}).Validate())
	assert.ErrorIs(t, (&entities.NewIssue{}).Validate(), entities.ErrEmptyTitle)
	assert.ErrorIs(t, (&entities.NewIssue{Title: "x", Priority: "urgent"}).Validate(), entities.ErrInvalidPriority)
}

func TestStatusCounts(t *testing.T) {
	var c entities.StatusCounts
	for _, s := range []entities.IssueStatus{
		entities.StatusPending, entities.StatusPending, entities.StatusResolved, entities.StatusClosed,
	} {
		c.Add(s)
	}

	assert.Equal(t, entities.StatusCounts{Total: 4, Pending: 2, Resolved: 1, Closed: 1}, c)
}

func TestDashboardCounts(t *testing.T) {
	lecturer := entities.Dashboard{AssignedIssues: &entities.StatusCounts{Total: 3}}
	assert.Equal(t, 3, lecturer.Counts().Total)

	var empty entities.Dashboard
	assert.Equal(t, 0, empty.Counts().Total)
	assert.Nil(t, empty.Recent())
}
