package entities

import (
	"errors"
	"strings"
)

// Role - роль пользователя системы.
type Role string

// Роли пользователей.
const (
	RoleStudent           Role = "student"
	RoleLecturer          Role = "lecturer"
	RoleAcademicRegistrar Role = "academic_registrar"
	RoleAdmin             Role = "admin"
)

// Ошибки домена пользователя.
var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrStudentNumberReq = errors.New("student number is required for students")
	ErrCollegeRequired  = errors.New("college is required")
)

// Valid проверяет, что роль известна.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAcademicRegistrar, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff сообщает, может ли пользователь с этой ролью получать назначения.
func (r Role) IsStaff() bool {
	return r == RoleLecturer || r == RoleAcademicRegistrar || r == RoleAdmin
}

// SeesAllIssues сообщает, видит ли роль все обращения.
func (r Role) SeesAllIssues() bool {
	return r == RoleAcademicRegistrar || r == RoleAdmin
}

// User - профиль пользователя.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          Role   `json:"role"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	StudentNumber string `json:"student_number,omitempty"`
	College       string `json:"college,omitempty"`
}

// FullName возвращает имя и фамилию через пробел.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary - элемент списка GET /users/.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	College  string `json:"college,omitempty"`
}

// Registration - тело POST /register/.
type Registration struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Role          Role   `json:"role"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	StudentNumber string `json:"student_number,omitempty"`
	College       string `json:"college,omitempty"`
}

// Validate проверяет обязательные поля с учетом роли.
func (r *Registration) Validate() error {
	if r.Username == "" {
		return ErrEmptyUsername
	}
	if r.Password == "" {
		return ErrEmptyPassword
	}
	if r.Role == "" {
		r.Role = RoleStudent
	}
	if !r.Role.Valid() {
		return ErrInvalidRole
	}
	if r.Role == RoleStudent && r.StudentNumber == "" {
		return ErrStudentNumberReq
	}
	if r.Role != RoleAdmin && r.College == "" {
		return ErrCollegeRequired
	}
	return nil
}

// ProfileUpdate - частичное обновление PATCH /profile/. Nil-поля не меняются.
type ProfileUpdate struct {
	Email         *string `json:"email,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	StudentNumber *string `json:"student_number,omitempty"`
	College       *string `json:"college,omitempty"`
}

// RoleFields - ответ GET /role-fields/.
type RoleFields struct {
	RequiredFields []string `json:"required_fields"`
	OptionalFields []string `json:"optional_fields"`
}
