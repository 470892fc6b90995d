package activitypub

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

// ActorResponse represents the JSON structure of an ActivityPub actor
type ActorResponse struct {
	Context           interface{} `json:"@context"`
	ID                string      `json:"id"`
	Type              string      `json:"type"`
	PreferredUsername string      `json:"preferredUsername"`
	Name              string      `json:"name"`
	Summary           string      `json:"summary"`
	Inbox             string      `json:"inbox"`
	Outbox            string      `json:"outbox"`
	Endpoints         struct {
		SharedInbox string `json:"sharedInbox"`
	} `json:"endpoints"`
	Icon struct {
		Type      string `json:"type"`
		MediaType string `json:"mediaType"`
		URL       string `json:"url"`
	} `json:"icon"`
	PublicKey struct {
		ID           string `json:"id"`
		Owner        string `json:"owner"`
		PublicKeyPem string `json:"publicKeyPem"`
	} `json:"publicKey"`
}

// FetchRemoteActor fetches an actor document from a remote server, verifies
// it and stores it in the cache. A document whose id lives on a different
// host than the fetch URL is discarded without touching the cache.
func FetchRemoteActor(actorURI string) (*domain.RemoteAccount, error) {
	req, err := http.NewRequest("GET", actorURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", util.GetNameAndVersion()+" ActivityPub")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("actor fetch failed with status %d: %w", resp.StatusCode, ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", ErrUpstreamUnavailable)
	}

	var actor ActorResponse
	if err := json.Unmarshal(body, &actor); err != nil {
		return nil, fmt.Errorf("failed to parse actor JSON: %w", ErrValidationFailed)
	}

	if actor.ID == "" || actor.Inbox == "" || actor.PublicKey.PublicKeyPem == "" {
		return nil, fmt.Errorf("actor missing required fields: %w", ErrValidationFailed)
	}

	// The document must describe the URL it was fetched from. A mismatched
	// host would let one server impersonate actors on another.
	if err := VerifyDomainsMatch(actor.ID, actorURI); err != nil {
		return nil, err
	}

	domainName, err := extractDomain(actor.ID)
	if err != nil {
		return nil, err
	}

	remoteAcc := &domain.RemoteAccount{
		Id:             uuid.New(),
		Username:       actor.PreferredUsername,
		Domain:         domainName,
		ActorURI:       actor.ID,
		DisplayName:    actor.Name,
		Summary:        actor.Summary,
		InboxURI:       actor.Inbox,
		SharedInboxURI: actor.Endpoints.SharedInbox,
		OutboxURI:      actor.Outbox,
		PublicKeyPem:   actor.PublicKey.PublicKeyPem,
		AvatarURL:      actor.Icon.URL,
		LastFetchedAt:  time.Now(),
	}

	database := db.GetDB()
	if err := database.UpsertRemoteAccount(remoteAcc); err != nil {
		return nil, fmt.Errorf("failed to store remote account: %w", err)
	}

	// Read back so concurrent resolutions of the same actor converge on
	// the row the constraint kept.
	err, stored := database.ReadRemoteAccountByURI(remoteAcc.ActorURI)
	if err != nil {
		return nil, fmt.Errorf("failed to read back remote account: %w", err)
	}

	return stored, nil
}

// GetOrFetchActor returns actor from cache, refreshing rows older than 24
// hours. When the refresh fails the stale row is still served, an actor we
// already know must stay usable while their home server is unreachable.
func GetOrFetchActor(actorURI string) (*domain.RemoteAccount, error) {
	database := db.GetDB()

	err, cached := database.ReadRemoteAccountByURI(actorURI)
	if err == nil && cached != nil {
		if time.Since(cached.LastFetchedAt) < 24*time.Hour {
			return cached, nil
		}

		fresh, fetchErr := FetchRemoteActor(actorURI)
		if fetchErr != nil {
			log.Printf("Actors: Refresh of %s failed, using cached copy: %v", actorURI, fetchErr)
			return cached, nil
		}
		return fresh, nil
	}

	return FetchRemoteActor(actorURI)
}

// VerifyDomainsMatch checks that two URIs live on the same host.
func VerifyDomainsMatch(a string, b string) error {
	hostA, err := extractDomain(a)
	if err != nil {
		return err
	}
	hostB, err := extractDomain(b)
	if err != nil {
		return err
	}
	if hostA != hostB {
		return fmt.Errorf("domain mismatch between %s and %s: %w", a, b, ErrValidationFailed)
	}
	return nil
}

// extractDomain extracts the domain from an actor URI
// Example: "https://mastodon.social/users/alice" -> "mastodon.social"
func extractDomain(actorURI string) (string, error) {
	parsed, err := url.Parse(actorURI)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid actor URI %q: %w", actorURI, ErrValidationFailed)
	}

	return parsed.Host, nil
}
