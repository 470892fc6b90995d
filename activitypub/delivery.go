package activitypub

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

// DeliverActivity sends an activity to each destination inbox, signing
// every request with the local account's key. Delivery is best effort: a
// failed destination is logged and the rest still get the activity.
func DeliverActivity(activity interface{}, localAccount *domain.Account, inboxes []string, conf *util.AppConfig) {
	activityJSON, err := json.Marshal(activity)
	if err != nil {
		log.Printf("Delivery: Failed to marshal activity: %v", err)
		return
	}

	privateKey, err := ParsePrivateKey(localAccount.WebPrivateKey)
	if err != nil {
		log.Printf("Delivery: Failed to parse private key for %s: %v", localAccount.Username, err)
		return
	}

	keyID := LocalActorURI(localAccount.Username, conf) + "#main-key"

	for _, inboxURI := range DedupInboxes(inboxes) {
		if err := deliverOnce(activityJSON, inboxURI, privateKey, keyID); err != nil {
			log.Printf("Delivery: Failed to deliver to %s: %v", inboxURI, err)
			continue
		}
		log.Printf("Delivery: Delivered to %s", inboxURI)
	}
}

// deliverOnce posts a signed activity to a single inbox.
func deliverOnce(activityJSON []byte, inboxURI string, privateKey *rsa.PrivateKey, keyID string) error {
	req, err := http.NewRequest("POST", inboxURI, bytes.NewReader(activityJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/activity+json")
	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", util.GetNameAndVersion()+" ActivityPub")
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Host", req.URL.Host)

	if err := SignRequest(req, privateKey, keyID, activityJSON); err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote server returned status %d: %w", resp.StatusCode, ErrUpstreamUnavailable)
	}

	return nil
}

// DedupInboxes removes duplicate inbox URIs while keeping the original
// order, so shared inboxes receive a broadcast once.
func DedupInboxes(inboxes []string) []string {
	seen := make(map[string]bool, len(inboxes))
	var result []string
	for _, inbox := range inboxes {
		if inbox == "" || seen[inbox] {
			continue
		}
		seen[inbox] = true
		result = append(result, inbox)
	}
	return result
}

// CollectFollowerInboxes gathers the delivery targets for a broadcast to
// an account's followers, collapsing onto shared inboxes where announced.
func CollectFollowerInboxes(localAccount *domain.Account) []string {
	database := db.GetDB()

	err, followers := database.ReadFollowersByAccountId(localAccount.Id)
	if err != nil {
		log.Printf("Delivery: Failed to get followers for %s: %v", localAccount.Username, err)
		return nil
	}
	if followers == nil || len(*followers) == 0 {
		return nil
	}

	var inboxes []string
	for _, follower := range *followers {
		err, remoteActor := database.ReadRemoteAccountById(follower.AccountId)
		if err != nil || remoteActor == nil {
			// Local followers have no inbox to deliver to.
			continue
		}
		inboxes = append(inboxes, remoteActor.SharedInboxOrInbox())
	}

	return DedupInboxes(inboxes)
}
