package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDiveToString(t *testing.T) {
	dive := &Dive{
		Id:          uuid.New(),
		CreatedBy:   "alice",
		DiveNumber:  42,
		SiteName:    "Blue Hole",
		MaxDepth:    31.5,
		DurationMin: 48,
		Description: "Drift along the wall",
		CreatedAt:   time.Now(),
	}

	s := dive.ToString()

	if !strings.Contains(s, "Dive #42") {
		t.Errorf("Expected dive number in output, got: %s", s)
	}
	if !strings.Contains(s, "Blue Hole") {
		t.Errorf("Expected site name in output, got: %s", s)
	}
	if !strings.Contains(s, "alice") {
		t.Errorf("Expected creator in output, got: %s", s)
	}
}

func TestDiveCommentExternal(t *testing.T) {
	comment := DiveComment{
		Id:        uuid.New(),
		DiveId:    uuid.New(),
		AccountId: uuid.New(),
		Body:      "Nice dive!",
		ApId:      "https://mastodon.social/users/bob/statuses/1",
		External:  true,
	}

	if !comment.External {
		t.Error("Federated comment should be marked external")
	}
	if comment.ApId == "" {
		t.Error("Federated comment keeps its originating activity id")
	}
}
