package web

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/util"
)

// GetNodeInfoDiscovery returns the well-known document pointing at the
// nodeinfo 2.0 payload.
func GetNodeInfoDiscovery(conf *util.AppConfig) string {
	return fmt.Sprintf(
		`{
				"links": [
					{
						"rel": "http://nodeinfo.diaspora.software/ns/schema/2.0",
						"href": "https://%s/nodeinfo/2.0.json"
					}
				]
			}`, conf.Conf.SslDomain)
}

// GetNodeInfo returns the nodeinfo 2.0 payload with live usage counts.
func GetNodeInfo(conf *util.AppConfig) (error, string) {
	database := db.GetDB()

	err, userCount := database.CountAccounts()
	if err != nil {
		log.Printf("NodeInfo: Failed to count accounts: %v", err)
		userCount = 0
	}

	err, diveCount := database.CountDives()
	if err != nil {
		log.Printf("NodeInfo: Failed to count dives: %v", err)
		diveCount = 0
	}

	nodeInfo := map[string]interface{}{
		"version": "2.0",
		"software": map[string]interface{}{
			"name":    "seadrift",
			"version": util.GetVersion(),
		},
		"protocols": []string{"activitypub"},
		"services": map[string]interface{}{
			"inbound":  []string{},
			"outbound": []string{},
		},
		"usage": map[string]interface{}{
			"users": map[string]interface{}{
				"total": userCount,
			},
			"localPosts": diveCount,
		},
		"openRegistrations": !conf.Conf.Closed,
		"metadata":          map[string]interface{}{},
	}

	jsonBytes, err := json.Marshal(nodeInfo)
	if err != nil {
		return err, "{}"
	}

	return nil, string(jsonBytes)
}
