package web

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetNodeInfoDiscovery(t *testing.T) {
	conf := webTestConf()

	result := GetNodeInfoDiscovery(conf)

	var discovery struct {
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal([]byte(result), &discovery); err != nil {
		t.Fatalf("Discovery document should be valid JSON: %v", err)
	}

	if len(discovery.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(discovery.Links))
	}

	link := discovery.Links[0]
	if link.Rel != "http://nodeinfo.diaspora.software/ns/schema/2.0" {
		t.Errorf("Expected nodeinfo 2.0 rel, got '%s'", link.Rel)
	}
	if link.Href != "https://seadrift.example/nodeinfo/2.0.json" {
		t.Errorf("Expected href on our domain, got '%s'", link.Href)
	}
	if !strings.Contains(link.Href, conf.Conf.SslDomain) {
		t.Error("Discovery href should point at the configured domain")
	}
}
