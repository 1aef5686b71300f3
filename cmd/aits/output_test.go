package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aitsclient/internal/client/config"
	"aitsclient/internal/client/domain/entities"
)

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	printIssues(&buf, []entities.Issue{
		{ID: 7, Title: "Missing marks", Status: entities.StatusPending, Priority: entities.PriorityHigh, CreatedAt: time.Now()},
	})

	out := buf.String()
	assert.Contains(t, out, "Missing marks")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "high")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, &entities.IssueStats{
		Total:     3,
		ByStatus:  map[entities.IssueStatus]int{entities.StatusPending: 2, entities.StatusClosed: 1},
		ByCollege: map[string]int{"COCIS": 3},
	})

	out := buf.String()
	assert.Contains(t, out, "in_progress")
	assert.Contains(t, out, "COCIS")
}

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	printDashboard(&buf, &entities.Dashboard{
		User:                entities.DashboardUser{Name: "Alice Student", Role: entities.RoleStudent},
		Issues:              &entities.StatusCounts{Total: 1, Pending: 1},
		UnreadNotifications: 2,
	})

	out := buf.String()
	assert.Contains(t, out, "Alice Student (student)")
	assert.Contains(t, out, "total 1: pending 1")
	assert.Contains(t, out, "unread notifications: 2")
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{}
	cli := CLI{APIURL: "http://example.test/api", Store: "memory", Debug: true}
	cli.apply(cfg)

	assert.Equal(t, "http://example.test/api", cfg.API.BaseURL)
	assert.Equal(t, config.StoreMemory, cfg.Store.Kind)
	assert.True(t, cfg.API.Debug)
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	if v := optional("x"); assert.NotNil(t, v) {
		assert.Equal(t, "x", *v)
	}
}
