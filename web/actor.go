package web

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/activitypub"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/util"
)

type action uint

const (
	id action = iota
	inbox
	outbox
	followers
	following
	sharedInbox
)

// GetActor renders a local account as an ActivityPub Person document.
func GetActor(actor string, conf *util.AppConfig) (error, string) {
	err, acc := db.GetDB().ReadAccByUsername(actor)
	if err != nil {
		return err, "{}"
	}

	username := acc.Username

	displayName := acc.DisplayName
	if displayName == "" {
		displayName = username
	}

	person := map[string]interface{}{
		"@context": []string{
			"https://www.w3.org/ns/activitystreams",
			"https://w3id.org/security/v1",
		},
		"id":                        getIRI(conf.Conf.SslDomain, username, id),
		"type":                      "Person",
		"preferredUsername":         username,
		"name":                      displayName,
		"summary":                   acc.Summary,
		"inbox":                     getIRI(conf.Conf.SslDomain, username, inbox),
		"outbox":                    getIRI(conf.Conf.SslDomain, username, outbox),
		"followers":                 getIRI(conf.Conf.SslDomain, username, followers),
		"following":                 getIRI(conf.Conf.SslDomain, username, following),
		"url":                       fmt.Sprintf("https://%s/u/%s", conf.Conf.SslDomain, username),
		"manuallyApprovesFollowers": false,
		"discoverable":              true,
		"endpoints": map[string]interface{}{
			"sharedInbox": getIRI(conf.Conf.SslDomain, username, sharedInbox),
		},
		"publicKey": map[string]interface{}{
			"id":           getIRI(conf.Conf.SslDomain, username, id) + "#main-key",
			"owner":        getIRI(conf.Conf.SslDomain, username, id),
			"publicKeyPem": acc.WebPublicKey,
		},
	}

	jsonBytes, err := json.Marshal(person)
	if err != nil {
		return err, "{}"
	}

	return nil, string(jsonBytes)
}

func getIRI(domain string, username string, action action) string {

	prefix := fmt.Sprintf("https://%s/users/%s", domain, username)
	switch action {
	case inbox:
		return fmt.Sprintf("%s/inbox", prefix)
	case outbox:
		return fmt.Sprintf("%s/outbox", prefix)
	case followers:
		return fmt.Sprintf("%s/followers", prefix)
	case following:
		return fmt.Sprintf("%s/following", prefix)
	case id:
		return prefix
	case sharedInbox:
		return fmt.Sprintf("https://%s/inbox", domain)
	default:
		return ""
	}
}

// GetDiveObject returns a dive as an ActivityPub Note
func GetDiveObject(diveId uuid.UUID, conf *util.AppConfig) (error, string) {
	err, dive := db.GetDB().ReadDiveById(diveId)
	if err != nil {
		return err, "{}"
	}

	noteObj := activitypub.BuildDiveNote(dive, conf)
	noteObj["@context"] = "https://www.w3.org/ns/activitystreams"

	jsonBytes, err := json.Marshal(noteObj)
	if err != nil {
		return err, "{}"
	}

	return nil, string(jsonBytes)
}

// GetOutbox renders an account's dives as a flat OrderedCollection.
func GetOutbox(actor string, conf *util.AppConfig) (error, string) {
	database := db.GetDB()
	err, acc := database.ReadAccByUsername(actor)
	if err != nil {
		return err, "{}"
	}

	err, dives := database.ReadDivesByUsername(acc.Username)
	if err != nil {
		return err, "{}"
	}

	items := make([]interface{}, 0)
	if dives != nil {
		for _, dive := range *dives {
			items = append(items, activitypub.BuildDiveNote(&dive, conf))
		}
	}

	collection := map[string]interface{}{
		"@context":     "https://www.w3.org/ns/activitystreams",
		"id":           getIRI(conf.Conf.SslDomain, acc.Username, outbox),
		"type":         "OrderedCollection",
		"totalItems":   len(items),
		"orderedItems": items,
	}

	jsonBytes, err := json.Marshal(collection)
	if err != nil {
		return err, "{}"
	}

	return nil, string(jsonBytes)
}

// GetFollowersCollection renders the follower count of an account without
// enumerating the followers themselves.
func GetFollowersCollection(actor string, conf *util.AppConfig) (error, string) {
	database := db.GetDB()
	err, acc := database.ReadAccByUsername(actor)
	if err != nil {
		return err, "{}"
	}

	err, count := database.CountFollowersByAccountId(acc.Id)
	if err != nil {
		return err, "{}"
	}

	collection := map[string]interface{}{
		"@context":   "https://www.w3.org/ns/activitystreams",
		"id":         getIRI(conf.Conf.SslDomain, acc.Username, followers),
		"type":       "OrderedCollection",
		"totalItems": count,
	}

	jsonBytes, err := json.Marshal(collection)
	if err != nil {
		return err, "{}"
	}

	return nil, string(jsonBytes)
}
