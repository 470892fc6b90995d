package activitypub

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
)

func TestBuildDiveNote(t *testing.T) {
	conf := testConf()

	dive := &domain.Dive{
		Id:          uuid.New(),
		CreatedBy:   "alice",
		DiveNumber:  7,
		SiteName:    "Blue Hole",
		MaxDepth:    31.5,
		DurationMin: 48,
		Description: "Drift along the wall",
		CreatedAt:   time.Now(),
	}

	note := BuildDiveNote(dive, conf)

	if note["type"] != "Note" {
		t.Errorf("Expected type 'Note', got '%v'", note["type"])
	}
	if note["id"] != LocalDiveURI(dive.Id, conf) {
		t.Errorf("Expected note id to be the dive URI, got '%v'", note["id"])
	}
	if note["attributedTo"] != "https://seadrift.example/users/alice" {
		t.Errorf("Expected attributedTo actor URI, got '%v'", note["attributedTo"])
	}

	content, ok := note["content"].(string)
	if !ok {
		t.Fatal("Expected string content")
	}
	if !strings.Contains(content, "Dive #7 - Blue Hole") {
		t.Errorf("Expected dive header in content, got '%s'", content)
	}
	if !strings.Contains(content, "(31.5m, 48min)") {
		t.Errorf("Expected depth and duration in content, got '%s'", content)
	}
	if !strings.Contains(content, "Drift along the wall") {
		t.Errorf("Expected description in content, got '%s'", content)
	}

	to, ok := note["to"].([]string)
	if !ok || len(to) != 1 || to[0] != "https://www.w3.org/ns/activitystreams#Public" {
		t.Errorf("Expected public addressing, got %v", note["to"])
	}

	cc, ok := note["cc"].([]string)
	if !ok || len(cc) != 1 || !strings.HasSuffix(cc[0], "/followers") {
		t.Errorf("Expected followers collection in cc, got %v", note["cc"])
	}
}

func TestBuildDiveNoteMinimal(t *testing.T) {
	conf := testConf()

	dive := &domain.Dive{
		Id:         uuid.New(),
		CreatedBy:  "alice",
		DiveNumber: 1,
		SiteName:   "House reef",
		CreatedAt:  time.Now(),
	}

	note := BuildDiveNote(dive, conf)

	content := note["content"].(string)
	if content != "Dive #1 - House reef" {
		t.Errorf("Expected bare header without stats, got '%s'", content)
	}
}
