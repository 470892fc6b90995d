package web

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/activitypub"
	"github.com/seadrift/seadrift/util"
	"golang.org/x/time/rate"
)

func Router(conf *util.AppConfig) error {
	log.Printf("Starting web server on %s:%d", conf.Conf.Host, conf.Conf.HttpPort)
	g := gin.Default()
	g.Use(gzip.Gzip(gzip.DefaultCompression))

	// Global rate limiter: 10 requests per second per IP, burst of 20
	globalLimiter := NewRateLimiter(rate.Limit(10), 20)
	g.Use(RateLimitMiddleware(globalLimiter))

	// Load HTML templates
	g.LoadHTMLGlob("web/templates/*")

	// Web UI routes
	g.GET("/", func(c *gin.Context) {
		HandleIndex(c, conf)
	})

	g.GET("/u/:username", func(c *gin.Context) {
		HandleProfile(c, c.Param("username"), conf)
	})

	// RSS Feed
	g.GET("/feed", func(c *gin.Context) {

		c.Header("Content-Type", "application/xml; charset=utf-8")

		username := c.Query("username")
		rss, err := GetRSS(conf, username)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rss})
		}
	})

	g.GET("/feed/:id", func(c *gin.Context) {
		c.Header("Content-Type", "application/xml; charset=utf-8")
		name := c.Param("id")
		feedId, err := uuid.Parse(name)
		if err != nil {
			c.Render(404, render.String{Format: ""})
			return
		}

		rssItem, err := GetRSSItem(conf, feedId)
		if err != nil {
			c.Render(404, render.String{Format: ""})
		} else {
			c.Render(200, render.String{Format: rssItem})
		}
	})

	// Dives negotiate between the HTML page and the ActivityPub object.
	g.GET("/dives/:id", func(c *gin.Context) {
		diveId, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Invalid dive ID"})
			return
		}

		if conf.Conf.WithAp && IsFederationRequest(c.GetHeader("Accept")) {
			c.Header("Content-Type", "application/activity+json; charset=utf-8")
			err, dive := GetDiveObject(diveId, conf)
			if err != nil {
				c.JSON(404, gin.H{"error": "Dive not found"})
			} else {
				c.Render(200, render.String{Format: dive})
			}
			return
		}

		HandleDive(c, diveId, conf)
	})

	// Endpoints for the ActivityPub functionality
	if conf.Conf.WithAp {
		// Stricter rate limit for ActivityPub endpoints: 5 req/sec per IP
		apLimiter := NewRateLimiter(rate.Limit(5), 10)

		// Max 1MB request body size for ActivityPub activities
		maxBodySize := MaxBytesMiddleware(1 * 1024 * 1024) // 1MB

		g.GET("/users/:actor", func(c *gin.Context) {
			actor := c.Param("actor")

			// Browsers get the profile page, federation software the
			// Person document.
			if !IsFederationRequest(c.GetHeader("Accept")) {
				HandleProfile(c, actor, conf)
				return
			}

			c.Header("Content-Type", "application/activity+json; charset=utf-8")
			err, person := GetActor(actor, conf)
			if err != nil {
				c.Render(404, render.String{Format: person})
			} else {
				c.Render(200, render.String{Format: person})
			}
		})

		g.POST("/inbox", RateLimitMiddleware(apLimiter), maxBodySize, func(c *gin.Context) {
			log.Println("POST /inbox (shared inbox)")
			activitypub.HandleInbox(c.Writer, c.Request, "", conf)
		})

		g.POST("/users/:actor/inbox", RateLimitMiddleware(apLimiter), maxBodySize, func(c *gin.Context) {
			actor := c.Param("actor")
			log.Printf("POST /users/%s/inbox", actor)
			activitypub.HandleInbox(c.Writer, c.Request, actor, conf)
		})

		g.GET("/users/:actor/outbox", func(c *gin.Context) {
			c.Header("Content-Type", "application/activity+json; charset=utf-8")
			err, collection := GetOutbox(c.Param("actor"), conf)
			if err != nil {
				c.Render(404, render.String{Format: collection})
			} else {
				c.Render(200, render.String{Format: collection})
			}
		})

		g.GET("/users/:actor/followers", func(c *gin.Context) {
			c.Header("Content-Type", "application/activity+json; charset=utf-8")
			err, collection := GetFollowersCollection(c.Param("actor"), conf)
			if err != nil {
				c.Render(404, render.String{Format: collection})
			} else {
				c.Render(200, render.String{Format: collection})
			}
		})

		g.GET("/users/:actor/following", func(c *gin.Context) {
			c.Header("Content-Type", "application/activity+json; charset=utf-8")
			c.Render(200, render.String{Format: `{"@context":"https://www.w3.org/ns/activitystreams","type":"OrderedCollection","totalItems":0}`})
		})

		g.GET("/.well-known/webfinger", func(c *gin.Context) {
			c.Header("Content-Type", "application/jrd+json; charset=utf-8")

			resource := c.Query("resource")
			if resource == "" || !strings.HasPrefix(resource, "acct:") {
				c.Render(404, render.String{Format: GetWebFingerNotFound()})
				return
			}

			name, err := ExtractWebfingerName(resource, conf)
			if err != nil {
				c.Render(404, render.String{Format: GetWebFingerNotFound()})
				return
			}

			err, resp := GetWebfinger(name, conf)
			if err != nil {
				c.Render(404, render.String{Format: GetWebFingerNotFound()})
			} else {
				c.Render(200, render.String{Format: resp})
			}
		})

		g.GET("/.well-known/nodeinfo", func(c *gin.Context) {
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.Render(200, render.String{Format: GetNodeInfoDiscovery(conf)})
		})

		g.GET("/nodeinfo/2.0.json", func(c *gin.Context) {
			c.Header("Content-Type", "application/json; charset=utf-8")
			err, nodeInfo := GetNodeInfo(conf)
			if err != nil {
				c.Render(500, render.String{Format: "{}"})
			} else {
				c.Render(200, render.String{Format: nodeInfo})
			}
		})

	}
	err := g.Run(fmt.Sprintf(":%d", conf.Conf.HttpPort))
	if err != nil {
		return err
	}
	return nil
}
