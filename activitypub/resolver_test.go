package activitypub

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

func testConf() *util.AppConfig {
	conf := &util.AppConfig{}
	conf.Conf.SslDomain = "seadrift.example"
	return conf
}

func TestLocalActorURI(t *testing.T) {
	conf := testConf()

	uri := LocalActorURI("alice", conf)
	if uri != "https://seadrift.example/users/alice" {
		t.Errorf("Expected 'https://seadrift.example/users/alice', got '%s'", uri)
	}
}

func TestLocalDiveURI(t *testing.T) {
	conf := testConf()
	diveId := uuid.New()

	uri := LocalDiveURI(diveId, conf)
	expected := "https://seadrift.example/dives/" + diveId.String()
	if uri != expected {
		t.Errorf("Expected '%s', got '%s'", expected, uri)
	}
}

func TestNewActivityURI(t *testing.T) {
	conf := testConf()

	uri := NewActivityURI(conf)
	prefix := "https://seadrift.example/activities/"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("Expected prefix '%s', got '%s'", prefix, uri)
	}

	if _, err := uuid.Parse(strings.TrimPrefix(uri, prefix)); err != nil {
		t.Errorf("Activity URI should end in a uuid: %v", err)
	}

	if NewActivityURI(conf) == uri {
		t.Error("Each activity URI should be unique")
	}
}

func TestParseLocalActorURI(t *testing.T) {
	conf := testConf()

	tests := []struct {
		name     string
		uri      string
		username string
		ok       bool
	}{
		{
			name:     "local actor",
			uri:      "https://seadrift.example/users/alice",
			username: "alice",
			ok:       true,
		},
		{
			name: "foreign domain",
			uri:  "https://mastodon.social/users/alice",
			ok:   false,
		},
		{
			name: "trailing path",
			uri:  "https://seadrift.example/users/alice/inbox",
			ok:   false,
		},
		{
			name: "empty username",
			uri:  "https://seadrift.example/users/",
			ok:   false,
		},
		{
			name: "not a users path",
			uri:  "https://seadrift.example/dives/alice",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, ok := parseLocalActorURI(tt.uri, conf)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if username != tt.username {
				t.Errorf("Expected username '%s', got '%s'", tt.username, username)
			}
		})
	}
}

func TestResolveLocalDiveForeignURI(t *testing.T) {
	conf := testConf()

	// A foreign object URI fails immediately, it is never fetched
	_, err := ResolveLocalDive("https://mastodon.social/statuses/123", conf)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign object, got %v", err)
	}
}

func TestResolveLocalDiveBadId(t *testing.T) {
	conf := testConf()

	_, err := ResolveLocalDive("https://seadrift.example/dives/not-a-uuid", conf)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for malformed dive id, got %v", err)
	}
}

func TestResolvedActorLocal(t *testing.T) {
	conf := testConf()
	acc := &domain.Account{Id: uuid.New(), Username: "alice", WebPublicKey: "local-pem"}
	resolved := &ResolvedActor{Local: acc}

	if !resolved.IsLocal() {
		t.Error("Expected IsLocal to be true")
	}
	if resolved.AccountId() != acc.Id {
		t.Error("Expected AccountId to return the local account id")
	}
	if resolved.Handle() != "alice" {
		t.Errorf("Expected handle 'alice', got '%s'", resolved.Handle())
	}
	if resolved.PublicKeyPem() != "local-pem" {
		t.Error("Expected the local web public key")
	}
	if resolved.URI(conf) != "https://seadrift.example/users/alice" {
		t.Errorf("Expected local actor URI, got '%s'", resolved.URI(conf))
	}
}

func TestResolvedActorRemote(t *testing.T) {
	conf := testConf()
	remote := &domain.RemoteAccount{
		Id:           uuid.New(),
		Username:     "bob",
		Domain:       "example.com",
		ActorURI:     "https://example.com/users/bob",
		PublicKeyPem: "remote-pem",
	}
	resolved := &ResolvedActor{Remote: remote}

	if resolved.IsLocal() {
		t.Error("Expected IsLocal to be false")
	}
	if resolved.AccountId() != remote.Id {
		t.Error("Expected AccountId to return the remote account id")
	}
	if resolved.Handle() != "bob@example.com" {
		t.Errorf("Expected handle 'bob@example.com', got '%s'", resolved.Handle())
	}
	if resolved.PublicKeyPem() != "remote-pem" {
		t.Error("Expected the cached remote key")
	}
	if resolved.URI(conf) != remote.ActorURI {
		t.Errorf("Expected remote actor URI, got '%s'", resolved.URI(conf))
	}
}
