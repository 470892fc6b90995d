package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestSharedInboxOrInbox(t *testing.T) {
	tests := []struct {
		name        string
		sharedInbox string
		inbox       string
		expected    string
	}{
		{
			name:        "shared inbox announced",
			sharedInbox: "https://example.com/inbox",
			inbox:       "https://example.com/users/alice/inbox",
			expected:    "https://example.com/inbox",
		},
		{
			name:        "no shared inbox",
			sharedInbox: "",
			inbox:       "https://example.com/users/alice/inbox",
			expected:    "https://example.com/users/alice/inbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &RemoteAccount{
				SharedInboxURI: tt.sharedInbox,
				InboxURI:       tt.inbox,
			}
			if got := acc.SharedInboxOrInbox(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestFollowStruct(t *testing.T) {
	follower := uuid.New()
	target := uuid.New()

	follow := Follow{
		Id:              uuid.New(),
		AccountId:       follower,
		TargetAccountId: target,
		URI:             "https://example.com/activities/123",
		Accepted:        false,
	}

	if follow.AccountId != follower {
		t.Error("AccountId should be the follower")
	}
	if follow.TargetAccountId != target {
		t.Error("TargetAccountId should be the account being followed")
	}
	if follow.Accepted {
		t.Error("A fresh outbound follow starts unaccepted")
	}
}
