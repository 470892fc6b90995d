package web

import (
	"strings"
)

const (
	// ActivityJSON is the primary federation media type.
	ActivityJSON = "application/activity+json"

	// LDJSON is the alternate federation media type, only honored when it
	// carries the activitystreams profile.
	LDJSON = "application/ld+json"

	activityStreamsProfile = "https://www.w3.org/ns/activitystreams"
)

// IsFederationRequest decides whether an Accept header asks for the
// ActivityPub rendition of a resource. Browsers asking for text/html get
// the HTML page, federation software gets JSON. The match is a tolerant
// case-insensitive substring check, federation software sends Accept
// headers that strict media type parsing rejects.
func IsFederationRequest(acceptHeader string) bool {
	accept := strings.ToLower(acceptHeader)
	if strings.Contains(accept, ActivityJSON) {
		return true
	}
	return strings.Contains(accept, LDJSON) && strings.Contains(accept, activityStreamsProfile)
}
