package domain

import (
	"github.com/google/uuid"
	"time"
)

// RemoteAccount represents a cached federated user
type RemoteAccount struct {
	Id             uuid.UUID
	Username       string
	Domain         string
	ActorURI       string
	DisplayName    string
	Summary        string
	InboxURI       string
	SharedInboxURI string
	OutboxURI      string
	PublicKeyPem   string
	AvatarURL      string
	LastFetchedAt  time.Time
}

// SharedInboxOrInbox returns the shared inbox when the remote server
// announces one, so broadcast deliveries hit each host once.
func (acc *RemoteAccount) SharedInboxOrInbox() string {
	if acc.SharedInboxURI != "" {
		return acc.SharedInboxURI
	}
	return acc.InboxURI
}

// Follow represents a follow relationship
type Follow struct {
	Id              uuid.UUID
	AccountId       uuid.UUID // the follower, local or remote
	TargetAccountId uuid.UUID // the account being followed
	URI             string    // ActivityPub Follow activity URI
	CreatedAt       time.Time
	Accepted        bool
}

// Like represents a like/favorite on a dive
type Like struct {
	Id        uuid.UUID
	AccountId uuid.UUID // who liked, local or remote
	DiveId    uuid.UUID
	URI       string // ActivityPub Like activity URI
	CreatedAt time.Time
}
