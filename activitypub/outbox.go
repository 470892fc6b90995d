package activitypub

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

// BuildDiveNote renders a dive as an ActivityPub Note object.
func BuildDiveNote(dive *domain.Dive, conf *util.AppConfig) map[string]interface{} {
	actorURI := LocalActorURI(dive.CreatedBy, conf)

	content := fmt.Sprintf("Dive #%d - %s", dive.DiveNumber, dive.SiteName)
	if dive.MaxDepth > 0 || dive.DurationMin > 0 {
		content += fmt.Sprintf(" (%.1fm, %dmin)", dive.MaxDepth, dive.DurationMin)
	}
	if dive.Description != "" {
		content += "\n" + dive.Description
	}

	return map[string]interface{}{
		"id":           LocalDiveURI(dive.Id, conf),
		"type":         "Note",
		"attributedTo": actorURI,
		"content":      content,
		"published":    dive.CreatedAt.Format(time.RFC3339),
		"to": []string{
			"https://www.w3.org/ns/activitystreams#Public",
		},
		"cc": []string{
			actorURI + "/followers",
		},
	}
}

// SendAccept sends an Accept activity in response to a Follow
func SendAccept(localAccount *domain.Account, remoteActor *domain.RemoteAccount, followID string, conf *util.AppConfig) error {
	actorURI := LocalActorURI(localAccount.Username, conf)

	accept := map[string]interface{}{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       NewActivityURI(conf),
		"type":     "Accept",
		"actor":    actorURI,
		"object": map[string]interface{}{
			"id":     followID,
			"type":   "Follow",
			"actor":  remoteActor.ActorURI,
			"object": actorURI,
		},
	}

	DeliverActivity(accept, localAccount, []string{remoteActor.InboxURI}, conf)
	return nil
}

// SendFollow sends a Follow activity to a remote actor and records the
// edge as pending until the Accept comes back.
func SendFollow(localAccount *domain.Account, remoteActorURI string, conf *util.AppConfig) error {
	remoteActor, err := GetOrFetchActor(remoteActorURI)
	if err != nil {
		return fmt.Errorf("failed to fetch remote actor: %w", err)
	}

	followID := NewActivityURI(conf)

	follow := map[string]interface{}{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       followID,
		"type":     "Follow",
		"actor":    LocalActorURI(localAccount.Username, conf),
		"object":   remoteActor.ActorURI,
	}

	followRecord := &domain.Follow{
		Id:              uuid.New(),
		AccountId:       localAccount.Id,
		TargetAccountId: remoteActor.Id,
		URI:             followID,
		Accepted:        false, // Pending until Accept received
		CreatedAt:       time.Now(),
	}

	if err := db.GetDB().CreateFollow(followRecord); err != nil {
		return fmt.Errorf("failed to store follow: %w", err)
	}

	DeliverActivity(follow, localAccount, []string{remoteActor.InboxURI}, conf)
	return nil
}

// SendCreateDive fans a freshly logged dive out to the diver's followers.
func SendCreateDive(dive *domain.Dive, localAccount *domain.Account, conf *util.AppConfig) error {
	actorURI := LocalActorURI(localAccount.Username, conf)
	note := BuildDiveNote(dive, conf)

	create := map[string]interface{}{
		"@context":  "https://www.w3.org/ns/activitystreams",
		"id":        NewActivityURI(conf),
		"type":      "Create",
		"actor":     actorURI,
		"published": dive.CreatedAt.Format(time.RFC3339),
		"to": []string{
			"https://www.w3.org/ns/activitystreams#Public",
		},
		"cc": []string{
			actorURI + "/followers",
		},
		"object": note,
	}

	inboxes := CollectFollowerInboxes(localAccount)
	if len(inboxes) == 0 {
		log.Printf("Outbox: No followers to deliver dive #%d to", dive.DiveNumber)
		return nil
	}

	DeliverActivity(create, localAccount, inboxes, conf)
	log.Printf("Outbox: Sent dive #%d to %d inboxes", dive.DiveNumber, len(inboxes))
	return nil
}
