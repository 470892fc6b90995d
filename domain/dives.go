package domain

import (
	"fmt"
	"github.com/google/uuid"
	"time"
)

// Dive is a logged dive, the unit of publishing on this node.
type Dive struct {
	Id          uuid.UUID
	CreatedBy   string // username of the diver
	DiveNumber  int
	SiteName    string
	MaxDepth    float64 // meters
	DurationMin int
	Description string
	CreatedAt   time.Time
}

// SaveDive carries the fields of a dive about to be logged.
type SaveDive struct {
	UserId      uuid.UUID
	SiteName    string
	MaxDepth    float64
	DurationMin int
	Description string
}

// DiveComment is a comment on a dive. External comments arrive over
// federation and keep the originating activity id for deduplication.
type DiveComment struct {
	Id        uuid.UUID
	DiveId    uuid.UUID
	AccountId uuid.UUID // commenter, local or remote
	Body      string
	ApId      string
	External  bool
	CreatedAt time.Time
}

func (d *Dive) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tDive #%d \n\tSite: %s \n\tBy: %s \n\tCREATED_AT: %s)",
		d.Id, d.DiveNumber, d.SiteName, d.CreatedBy, d.CreatedAt)
}
