package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"

	"aitsclient/internal/client/config"
	"aitsclient/internal/client/domain/entities"
)

var (
	errEmptyInput  = errors.New("value cannot be empty")
	errAborted     = errors.New("aborted")
	errNoUser      = errors.New("not logged in")
	errEmptyPatch  = errors.New("nothing to update")
	errInvalidRole = errors.New("role must be one of student, lecturer, academic_registrar, admin")
)

// CLI - корневая команда aits.
type CLI struct {
	EnvFile     string `name:"env-file" help:"Path to an env file with AITS_* settings." default:".env"`
	APIURL      string `name:"api-url" help:"Override the API base URL."`
	Store       string `help:"Override the token store: memory, file or redis."`
	Debug       bool   `help:"Log HTTP traffic."`
	MetricsFile string `name:"metrics-file" help:"Write client metrics to this file after the command."`

	Login         LoginCmd         `cmd:"" help:"Log in and store the session."`
	Logout        LogoutCmd        `cmd:"" help:"End the stored session."`
	Whoami        WhoamiCmd        `cmd:"" help:"Show the logged in user."`
	Register      RegisterCmd      `cmd:"" help:"Create an account and log in."`
	Profile       ProfileCmd       `cmd:"" help:"Update the profile of the logged in user."`
	Users         UsersCmd         `cmd:"" help:"List users."`
	Issues        IssuesCmd        `cmd:"" help:"Work with issues."`
	Comments      CommentsCmd      `cmd:"" help:"Work with issue comments."`
	Notifications NotificationsCmd `cmd:"" help:"Work with notifications."`
	Dashboard     DashboardCmd     `cmd:"" help:"Show the role dashboard."`
	Colleges      CollegesCmd      `cmd:"" help:"List colleges."`
	CourseUnits   CourseUnitsCmd   `cmd:"" name:"course-units" help:"List course units."`
	RoleFields    RoleFieldsCmd    `cmd:"" name:"role-fields" help:"Show registration fields for a role."`
}

// apply переносит флаги поверх загруженной конфигурации.
func (c *CLI) apply(cfg *config.Config) {
	if c.APIURL != "" {
		cfg.API.BaseURL = c.APIURL
	}
	if c.Store != "" {
		cfg.Store.Kind = config.StoreKind(c.Store)
	}
	if c.Debug {
		cfg.API.Debug = true
	}
}

func promptValue(label string, mask bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if s == "" {
				return errEmptyInput
			}
			return nil
		},
	}
	if mask {
		prompt.Mask = '*'
	}
	return prompt.Run()
}

func confirm(message string) bool {
	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		return false
	}
	return result == "y"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LoginCmd выполняет вход.
type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Account name; prompted when omitted."`
	Password string `help:"Password; prompted when omitted." env:"AITS_PASSWORD"`
}

func (c *LoginCmd) Run(rt *Runtime) error {
	var err error
	if c.Username == "" {
		if c.Username, err = promptValue("Username", false); err != nil {
			return err
		}
	}
	if c.Password == "" {
		if c.Password, err = promptValue("Password", true); err != nil {
			return err
		}
	}

	user, err := rt.auth.Login(rt.ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

// LogoutCmd завершает сессию.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(rt *Runtime) error {
	if err := rt.auth.Logout(rt.ctx); err != nil {
		return err
	}
	fmt.Fprintln(rt.out, "Logged out")
	return nil
}

// WhoamiCmd восстанавливает сессию и печатает профиль.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(rt *Runtime) error {
	user, err := rt.auth.Restore(rt.ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return errNoUser
	}
	printUser(rt.out, user)
	return nil
}

// RegisterCmd создает учетную запись.
type RegisterCmd struct {
	Username      string `arg:"" help:"Account name."`
	Email         string `required:"" help:"Email address."`
	Password      string `help:"Password; prompted when omitted." env:"AITS_PASSWORD"`
	Role          string `default:"student" help:"student, lecturer, academic_registrar or admin."`
	FirstName     string `name:"first-name"`
	LastName      string `name:"last-name"`
	StudentNumber string `name:"student-number"`
	College       string
	Phone         string
}

func (c *RegisterCmd) Run(rt *Runtime) error {
	role := entities.Role(c.Role)
	if !role.Valid() {
		return errInvalidRole
	}
	if c.Password == "" {
		var err error
		if c.Password, err = promptValue("Password", true); err != nil {
			return err
		}
	}

	user, err := rt.auth.Register(rt.ctx, &entities.Registration{
		Username:      c.Username,
		Email:         c.Email,
		Password:      c.Password,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Role:          role,
		PhoneNumber:   c.Phone,
		StudentNumber: c.StudentNumber,
		College:       c.College,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Registered and logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

// ProfileCmd частично обновляет профиль.
type ProfileCmd struct {
	Email     string
	FirstName string `name:"first-name"`
	LastName  string `name:"last-name"`
	Phone     string
	College   string
}

func (c *ProfileCmd) Run(rt *Runtime) error {
	patch := &entities.ProfileUpdate{
		Email:       optional(c.Email),
		FirstName:   optional(c.FirstName),
		LastName:    optional(c.LastName),
		PhoneNumber: optional(c.Phone),
		College:     optional(c.College),
	}
	if *patch == (entities.ProfileUpdate{}) {
		return errEmptyPatch
	}

	user, err := rt.auth.UpdateProfile(rt.ctx, patch)
	if err != nil {
		return err
	}
	printUser(rt.out, user)
	return nil
}

// UsersCmd печатает пользователей, при необходимости одной роли.
type UsersCmd struct {
	Role string `help:"Filter by role."`
}

func (c *UsersCmd) Run(rt *Runtime) error {
	users, err := rt.api.ListUsers(rt.ctx, entities.Role(c.Role))
	if err != nil {
		return err
	}
	printUsers(rt.out, users)
	return nil
}

// IssuesCmd объединяет команды обращений.
type IssuesCmd struct {
	List        IssuesListCmd        `cmd:"" help:"List visible issues."`
	Show        IssuesShowCmd        `cmd:"" help:"Show one issue."`
	Create      IssuesCreateCmd      `cmd:"" help:"Submit a new issue."`
	Update      IssuesUpdateCmd      `cmd:"" help:"Change an issue."`
	Delete      IssuesDeleteCmd      `cmd:"" help:"Delete an issue."`
	Assign      IssuesAssignCmd      `cmd:"" help:"Assign an issue to a staff member."`
	RequestInfo IssuesRequestInfoCmd `cmd:"" name:"request-info" help:"Ask the student for more information."`
	Stats       IssuesStatsCmd       `cmd:"" help:"Show issue statistics."`
}

type IssuesListCmd struct {
	Stale time.Duration `help:"Show only pending issues older than this, oldest first."`
}

func (c *IssuesListCmd) Run(rt *Runtime) error {
	if err := rt.issues.Fetch(rt.ctx); err != nil {
		return err
	}

	if c.Stale > 0 {
		printIssues(rt.out, rt.issues.StalePending(c.Stale))
		return nil
	}
	printIssues(rt.out, rt.issues.Issues())
	printCounts(rt.out, rt.issues.StatusDistribution())
	return nil
}

type IssuesShowCmd struct {
	ID int64 `arg:""`
}

func (c *IssuesShowCmd) Run(rt *Runtime) error {
	issue, err := rt.api.GetIssue(rt.ctx, c.ID)
	if err != nil {
		return err
	}
	printIssue(rt.out, issue)
	return nil
}

type IssuesCreateCmd struct {
	Title       string `required:""`
	Description string
	Priority    string `default:"medium" help:"low, medium or high."`
	CourseUnit  string `name:"course-unit"`
	College     string
}

func (c *IssuesCreateCmd) Run(rt *Runtime) error {
	issue, err := rt.issues.Submit(rt.ctx, &entities.NewIssue{
		Title:       c.Title,
		Description: c.Description,
		Priority:    entities.Priority(c.Priority),
		CourseUnit:  c.CourseUnit,
		College:     c.College,
	})
	if err != nil {
		return err
	}
	printIssue(rt.out, issue)
	return nil
}

type IssuesUpdateCmd struct {
	ID          int64 `arg:""`
	Title       string
	Description string
	Status      string `help:"pending, in_progress, resolved or closed."`
	Priority    string
	CourseUnit  string `name:"course-unit"`
}

func (c *IssuesUpdateCmd) Run(rt *Runtime) error {
	patch := &entities.IssueUpdate{
		Title:       optional(c.Title),
		Description: optional(c.Description),
		CourseUnit:  optional(c.CourseUnit),
	}
	if c.Status != "" {
		status := entities.IssueStatus(c.Status)
		patch.Status = &status
	}
	if c.Priority != "" {
		priority := entities.Priority(c.Priority)
		patch.Priority = &priority
	}
	if *patch == (entities.IssueUpdate{}) {
		return errEmptyPatch
	}

	issue, err := rt.issues.Modify(rt.ctx, c.ID, patch)
	if err != nil {
		return err
	}
	printIssue(rt.out, issue)
	return nil
}

type IssuesDeleteCmd struct {
	ID  int64 `arg:""`
	Yes bool  `short:"y" help:"Do not ask for confirmation."`
}

func (c *IssuesDeleteCmd) Run(rt *Runtime) error {
	if !c.Yes && !confirm(fmt.Sprintf("Delete issue %d", c.ID)) {
		return errAborted
	}
	if err := rt.issues.Remove(rt.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Issue %d deleted\n", c.ID)
	return nil
}

type IssuesAssignCmd struct {
	ID     int64 `arg:""`
	UserID int64 `arg:"" optional:"" help:"Staff user id; chosen from the lecturer list when omitted."`
}

func (c *IssuesAssignCmd) Run(rt *Runtime) error {
	if c.UserID == 0 {
		lecturers, err := rt.api.ListLecturers(rt.ctx)
		if err != nil {
			return err
		}
		if c.UserID, err = selectUser(lecturers); err != nil {
			return err
		}
	}

	issue, err := rt.issues.Assign(rt.ctx, c.ID, c.UserID)
	if err != nil {
		return err
	}
	printIssue(rt.out, issue)
	return nil
}

func selectUser(users []entities.UserSummary) (int64, error) {
	if len(users) == 0 {
		return 0, errEmptyInput
	}
	items := make([]string, 0, len(users))
	for _, u := range users {
		items = append(items, fmt.Sprintf("%s (%s)", u.FullName, u.Username))
	}

	sel := promptui.Select{Label: "Assign to", Items: items}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, err
	}
	return users[idx].ID, nil
}

type IssuesRequestInfoCmd struct {
	ID      int64  `arg:""`
	Message string `help:"Question for the student."`
}

func (c *IssuesRequestInfoCmd) Run(rt *Runtime) error {
	res, err := rt.api.RequestInfo(rt.ctx, c.ID, c.Message)
	if err != nil {
		return err
	}
	printIssue(rt.out, &res.Issue)
	return nil
}

type IssuesStatsCmd struct{}

func (c *IssuesStatsCmd) Run(rt *Runtime) error {
	stats, err := rt.api.IssueStats(rt.ctx)
	if err != nil {
		return err
	}
	printStats(rt.out, stats)
	return nil
}

// CommentsCmd объединяет команды комментариев.
type CommentsCmd struct {
	List CommentsListCmd `cmd:"" help:"List comments of an issue."`
	Add  CommentsAddCmd  `cmd:"" help:"Comment on an issue."`
}

type CommentsListCmd struct {
	IssueID int64 `arg:"" name:"issue"`
}

func (c *CommentsListCmd) Run(rt *Runtime) error {
	comments, err := rt.api.ListComments(rt.ctx, c.IssueID)
	if err != nil {
		return err
	}
	printComments(rt.out, comments)
	return nil
}

type CommentsAddCmd struct {
	IssueID int64  `arg:"" name:"issue"`
	Content string `arg:""`
}

func (c *CommentsAddCmd) Run(rt *Runtime) error {
	comment, err := rt.api.AddComment(rt.ctx, c.IssueID, c.Content)
	if err != nil {
		return err
	}
	printComments(rt.out, []entities.Comment{*comment})
	return nil
}

// NotificationsCmd объединяет команды уведомлений.
type NotificationsCmd struct {
	List    NotificationsListCmd    `cmd:"" help:"List notifications."`
	Read    NotificationsReadCmd    `cmd:"" help:"Mark a notification as read."`
	ReadAll NotificationsReadAllCmd `cmd:"" name:"read-all" help:"Mark all notifications as read."`
}

type NotificationsListCmd struct {
	Unread bool `help:"Only unread notifications."`
}

func (c *NotificationsListCmd) Run(rt *Runtime) error {
	items, err := rt.api.ListNotifications(rt.ctx)
	if err != nil {
		return err
	}
	if c.Unread {
		unread := items[:0]
		for _, n := range items {
			if !n.IsRead {
				unread = append(unread, n)
			}
		}
		items = unread
	}
	printNotifications(rt.out, items)
	return nil
}

type NotificationsReadCmd struct {
	ID int64 `arg:""`
}

func (c *NotificationsReadCmd) Run(rt *Runtime) error {
	return rt.api.MarkNotificationRead(rt.ctx, c.ID)
}

type NotificationsReadAllCmd struct{}

func (c *NotificationsReadAllCmd) Run(rt *Runtime) error {
	return rt.api.MarkAllNotificationsRead(rt.ctx)
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(rt *Runtime) error {
	dash, err := rt.api.Dashboard(rt.ctx)
	if err != nil {
		return err
	}
	printDashboard(rt.out, dash)
	return nil
}

type CollegesCmd struct{}

func (c *CollegesCmd) Run(rt *Runtime) error {
	colleges, err := rt.api.ListColleges(rt.ctx)
	if err != nil {
		return err
	}
	printList(rt.out, colleges)
	return nil
}

type CourseUnitsCmd struct{}

func (c *CourseUnitsCmd) Run(rt *Runtime) error {
	units, err := rt.api.ListCourseUnits(rt.ctx)
	if err != nil {
		return err
	}
	printList(rt.out, units)
	return nil
}

type RoleFieldsCmd struct {
	Role string `arg:""`
}

func (c *RoleFieldsCmd) Run(rt *Runtime) error {
	fields, err := rt.api.RoleFields(rt.ctx, entities.Role(c.Role))
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "required: %v\noptional: %v\n", fields.RequiredFields, fields.OptionalFields)
	return nil
}
