package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/util"
)

// ExtractWebfingerName resolves a webfinger resource query down to a local
// username. Accepts "acct:user@domain", "user@domain" and bare "user";
// a name on a foreign domain is an error, not a lookup.
func ExtractWebfingerName(resource string, conf *util.AppConfig) (string, error) {
	name := strings.TrimPrefix(resource, "acct:")
	name = strings.TrimSuffix(name, fmt.Sprintf("@%s", conf.Conf.SslDomain))

	if name == "" {
		return "", fmt.Errorf("empty webfinger resource")
	}
	if strings.Contains(name, "@") {
		return "", fmt.Errorf("webfinger resource %q is not on this domain", resource)
	}

	return name, nil
}

func GetWebfinger(user string, conf *util.AppConfig) (error, string) {

	err, acc := db.GetDB().ReadAccByUsername(user)
	if err != nil {
		return err, GetWebFingerNotFound()
	}

	username := acc.Username

	return nil, fmt.Sprintf(
		`{
					"subject": "acct:%s@%s",

					"links": [
						{
							"rel": "self",
							"type": "application/activity+json",
							"href": "https://%s/users/%s"
						},
						{
							"rel": "http://webfinger.net/rel/profile-page",
							"type": "text/html",
							"href": "https://%s/u/%s"
						}
					]
				}`, username, conf.Conf.SslDomain,
		conf.Conf.SslDomain, username,
		conf.Conf.SslDomain, username)
}

func GetWebFingerNotFound() string {
	return `{"detail":"Not Found"}`
}

// webfingerResponse is the subset of a webfinger document we care about.
type webfingerResponse struct {
	Subject string `json:"subject"`
	Links   []struct {
		Rel  string `json:"rel"`
		Type string `json:"type"`
		Href string `json:"href"`
	} `json:"links"`
}

// ResolveWebFinger looks up a "user@domain" handle on the remote domain
// and returns the actor URI behind its self link.
func ResolveWebFinger(handle string) (string, error) {
	handle = strings.TrimPrefix(handle, "@")
	parts := strings.Split(handle, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid handle: %s", handle)
	}
	username, domain := parts[0], parts[1]

	wfURL := fmt.Sprintf("https://%s/.well-known/webfinger?resource=%s",
		domain, url.QueryEscape(fmt.Sprintf("acct:%s@%s", username, domain)))

	req, err := http.NewRequest("GET", wfURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/jrd+json, application/json")
	req.Header.Set("User-Agent", util.GetNameAndVersion()+" ActivityPub")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("webfinger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webfinger lookup failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read webfinger response: %w", err)
	}

	var wf webfingerResponse
	if err := json.Unmarshal(body, &wf); err != nil {
		return "", fmt.Errorf("failed to parse webfinger response: %w", err)
	}

	for _, link := range wf.Links {
		if link.Rel == "self" && link.Type == "application/activity+json" && link.Href != "" {
			return link.Href, nil
		}
	}

	return "", fmt.Errorf("no actor link found for %s", handle)
}
