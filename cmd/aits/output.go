package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"aitsclient/internal/client/domain/entities"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	return table
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printUser(w io.Writer, u *entities.User) {
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", strconv.FormatInt(u.ID, 10)},
		{"Username", u.Username},
		{"Name", orDash(u.FullName())},
		{"Email", orDash(u.Email)},
		{"Role", string(u.Role)},
		{"College", orDash(u.College)},
		{"Student number", orDash(u.StudentNumber)},
		{"Phone", orDash(u.PhoneNumber)},
	})
	table.Render()
}

func printUsers(w io.Writer, users []entities.UserSummary) {
	table := newTable(w, "ID", "Username", "Name", "Role", "College")
	for _, u := range users {
		table.Append([]string{strconv.FormatInt(u.ID, 10), u.Username, orDash(u.FullName), string(u.Role), orDash(u.College)})
	}
	table.Render()
}

func printIssues(w io.Writer, issues []entities.Issue) {
	table := newTable(w, "ID", "Title", "Status", "Priority", "Assigned", "Created")
	for _, i := range issues {
		table.Append([]string{
			strconv.FormatInt(i.ID, 10),
			i.Title,
			string(i.Status),
			string(i.Priority),
			orDash(i.AssignedToName),
			formatTime(i.CreatedAt),
		})
	}
	table.Render()
}

func printIssue(w io.Writer, i *entities.Issue) {
	table := newTable(w, "Field", "Value")
	table.AppendBulk([][]string{
		{"ID", strconv.FormatInt(i.ID, 10)},
		{"Title", i.Title},
		{"Description", orDash(i.Description)},
		{"Status", string(i.Status)},
		{"Priority", string(i.Priority)},
		{"Created by", orDash(i.CreatedByName)},
		{"Assigned to", orDash(i.AssignedToName)},
		{"Course unit", orDash(i.CourseUnit)},
		{"College", orDash(i.College)},
		{"Created", formatTime(i.CreatedAt)},
		{"Updated", formatTime(i.UpdatedAt)},
	})
	table.Render()
}

func printCounts(w io.Writer, c entities.StatusCounts) {
	fmt.Fprintf(w, "total %d: pending %d, in progress %d, resolved %d, closed %d\n",
		c.Total, c.Pending, c.InProgress, c.Resolved, c.Closed)
}

func printStats(w io.Writer, s *entities.IssueStats) {
	table := newTable(w, "Status", "Count")
	for _, status := range entities.Statuses {
		table.Append([]string{string(status), strconv.Itoa(s.ByStatus[status])})
	}
	table.SetFooter([]string{"total", strconv.Itoa(s.Total)})
	table.Render()

	if len(s.ByCollege) == 0 {
		return
	}
	colleges := make([]string, 0, len(s.ByCollege))
	for college := range s.ByCollege {
		colleges = append(colleges, college)
	}
	sort.Strings(colleges)

	table = newTable(w, "College", "Count")
	for _, college := range colleges {
		table.Append([]string{college, strconv.Itoa(s.ByCollege[college])})
	}
	table.Render()
}

func printComments(w io.Writer, comments []entities.Comment) {
	table := newTable(w, "ID", "Author", "Created", "Content")
	for _, c := range comments {
		table.Append([]string{strconv.FormatInt(c.ID, 10), orDash(c.CreatedByName), formatTime(c.CreatedAt), c.Content})
	}
	table.Render()
}

func printNotifications(w io.Writer, items []entities.Notification) {
	table := newTable(w, "ID", "Type", "Issue", "Read", "Created", "Message")
	for _, n := range items {
		issue := "-"
		if n.Issue != nil {
			issue = strconv.FormatInt(*n.Issue, 10)
		}
		table.Append([]string{
			strconv.FormatInt(n.ID, 10),
			string(n.NotificationType),
			issue,
			strconv.FormatBool(n.IsRead),
			formatTime(n.CreatedAt),
			n.Message,
		})
	}
	table.Render()
}

func printDashboard(w io.Writer, d *entities.Dashboard) {
	fmt.Fprintf(w, "%s (%s)\n", d.User.Name, d.User.Role)
	printCounts(w, *d.Counts())
	fmt.Fprintf(w, "unread notifications: %d\n", d.UnreadNotifications)

	if len(d.CollegeStats) > 0 {
		table := newTable(w, "College", "Count")
		for _, c := range d.CollegeStats {
			table.Append([]string{c.College, strconv.Itoa(c.Count)})
		}
		table.Render()
	}
	if recent := d.Recent(); len(recent) > 0 {
		printIssues(w, recent)
	}
}

func printList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
}
