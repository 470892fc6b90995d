package activitypub

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

// ResolvedActor holds either a local account or a cached remote account,
// never both. The split keeps local lookups off the network entirely.
type ResolvedActor struct {
	Local  *domain.Account
	Remote *domain.RemoteAccount
}

// AccountId returns the id of whichever side is populated.
func (a *ResolvedActor) AccountId() uuid.UUID {
	if a.Local != nil {
		return a.Local.Id
	}
	return a.Remote.Id
}

// IsLocal reports whether the actor lives on this server.
func (a *ResolvedActor) IsLocal() bool {
	return a.Local != nil
}

// Handle returns a readable handle for logging, user@domain for remote
// actors and the bare username for local ones.
func (a *ResolvedActor) Handle() string {
	if a.Local != nil {
		return a.Local.Username
	}
	return a.Remote.Username + "@" + a.Remote.Domain
}

// PublicKeyPem returns the PEM encoded key the actor signs requests with.
func (a *ResolvedActor) PublicKeyPem() string {
	if a.Local != nil {
		return a.Local.WebPublicKey
	}
	return a.Remote.PublicKeyPem
}

// URI returns the canonical actor URI.
func (a *ResolvedActor) URI(conf *util.AppConfig) string {
	if a.Local != nil {
		return LocalActorURI(a.Local.Username, conf)
	}
	return a.Remote.ActorURI
}

// LocalActorURI builds the canonical URI of a local account.
func LocalActorURI(username string, conf *util.AppConfig) string {
	return fmt.Sprintf("https://%s/users/%s", conf.Conf.SslDomain, username)
}

// LocalDiveURI builds the canonical URI of a local dive.
func LocalDiveURI(diveId uuid.UUID, conf *util.AppConfig) string {
	return fmt.Sprintf("https://%s/dives/%s", conf.Conf.SslDomain, diveId.String())
}

// NewActivityURI mints a fresh activity id on this server.
func NewActivityURI(conf *util.AppConfig) string {
	return fmt.Sprintf("https://%s/activities/%s", conf.Conf.SslDomain, uuid.New().String())
}

// ResolveActor turns an actor URI into an account. URIs on our own domain
// are answered from the database and never fetched; anything else goes
// through the remote actor cache.
func ResolveActor(actorURI string, conf *util.AppConfig) (*ResolvedActor, error) {
	if username, ok := parseLocalActorURI(actorURI, conf); ok {
		err, acc := db.GetDB().ReadAccByUsername(username)
		if err != nil || acc == nil {
			return nil, fmt.Errorf("local actor %s: %w", actorURI, ErrNotFound)
		}
		return &ResolvedActor{Local: acc}, nil
	}

	remote, err := GetOrFetchActor(actorURI)
	if err != nil {
		return nil, err
	}
	return &ResolvedActor{Remote: remote}, nil
}

// ResolveLocalDive turns an object URI into a dive. Only URIs on our own
// domain qualify; foreign object URIs are not looked up remotely.
func ResolveLocalDive(objectURI string, conf *util.AppConfig) (*domain.Dive, error) {
	prefix := fmt.Sprintf("https://%s/dives/", conf.Conf.SslDomain)
	if !strings.HasPrefix(objectURI, prefix) {
		return nil, fmt.Errorf("object %s is not a local dive: %w", objectURI, ErrNotFound)
	}

	diveId, err := uuid.Parse(strings.TrimPrefix(objectURI, prefix))
	if err != nil {
		return nil, fmt.Errorf("object %s has no dive id: %w", objectURI, ErrNotFound)
	}

	err, dive := db.GetDB().ReadDiveById(diveId)
	if err != nil || dive == nil {
		return nil, fmt.Errorf("dive %s: %w", diveId, ErrNotFound)
	}
	return dive, nil
}

// parseLocalActorURI extracts the username when the URI points at an actor
// on this server.
func parseLocalActorURI(actorURI string, conf *util.AppConfig) (string, bool) {
	prefix := fmt.Sprintf("https://%s/users/", conf.Conf.SslDomain)
	if !strings.HasPrefix(actorURI, prefix) {
		return "", false
	}
	username := strings.TrimPrefix(actorURI, prefix)
	if username == "" || strings.Contains(username, "/") {
		return "", false
	}
	return username, true
}
