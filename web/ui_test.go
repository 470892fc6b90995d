package web

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		t        time.Time
		expected string
	}{
		{
			name:     "just now",
			t:        now.Add(-30 * time.Second),
			expected: "just now",
		},
		{
			name:     "one minute",
			t:        now.Add(-90 * time.Second),
			expected: "1 minute ago",
		},
		{
			name:     "minutes",
			t:        now.Add(-10 * time.Minute),
			expected: "10 minutes ago",
		},
		{
			name:     "one hour",
			t:        now.Add(-90 * time.Minute),
			expected: "1 hour ago",
		},
		{
			name:     "hours",
			t:        now.Add(-5 * time.Hour),
			expected: "5 hours ago",
		},
		{
			name:     "one day",
			t:        now.Add(-36 * time.Hour),
			expected: "1 day ago",
		},
		{
			name:     "days",
			t:        now.Add(-3 * 24 * time.Hour),
			expected: "3 days ago",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimeAgo(tt.t); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestFormatTimeAgoOldDates(t *testing.T) {
	old := time.Date(2020, time.March, 15, 12, 0, 0, 0, time.UTC)

	result := formatTimeAgo(old)
	if result != "Mar 15, 2020" {
		t.Errorf("Expected absolute date for old timestamps, got '%s'", result)
	}
}

func TestToDiveView(t *testing.T) {
	diveId := uuid.New()
	dive := &domain.Dive{
		Id:          diveId,
		CreatedBy:   "alice",
		DiveNumber:  7,
		SiteName:    "Blue Hole",
		MaxDepth:    31.5,
		DurationMin: 48,
		Description: "Drift along [the wall](https://example.com/wall)",
		CreatedAt:   time.Now().Add(-10 * time.Minute),
	}

	view := toDiveView(dive)

	if view.Id != diveId.String() {
		t.Errorf("Expected id '%s', got '%s'", diveId.String(), view.Id)
	}
	if view.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", view.Username)
	}
	if view.DiveNumber != 7 {
		t.Errorf("Expected dive number 7, got %d", view.DiveNumber)
	}
	if view.SiteName != "Blue Hole" {
		t.Errorf("Expected site 'Blue Hole', got '%s'", view.SiteName)
	}
	if view.MaxDepth != 31.5 {
		t.Errorf("Expected max depth 31.5, got %f", view.MaxDepth)
	}
	if view.DurationMin != 48 {
		t.Errorf("Expected duration 48, got %d", view.DurationMin)
	}
	if view.TimeAgo != "10 minutes ago" {
		t.Errorf("Expected '10 minutes ago', got '%s'", view.TimeAgo)
	}

	// Markdown links get rendered for the HTML view, the raw text stays
	if !strings.Contains(string(view.DescriptionHTML), `<a href="https://example.com/wall"`) {
		t.Errorf("Expected rendered link in description HTML, got '%s'", view.DescriptionHTML)
	}
	if view.Description != dive.Description {
		t.Errorf("Expected raw description to be preserved, got '%s'", view.Description)
	}
}
