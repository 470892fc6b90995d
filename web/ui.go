package web

import (
	"fmt"
	"html/template"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

type IndexPageData struct {
	Title    string
	Host     string
	SSHPort  int
	Dives    []DiveView
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

type ProfilePageData struct {
	Title      string
	Host       string
	SSHPort    int
	User       UserView
	Dives      []DiveView
	TotalDives int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type DivePageData struct {
	Title    string
	Host     string
	SSHPort  int
	Dive     DiveView
	Likes    int
	Comments []CommentView
}

type UserView struct {
	Username    string
	DisplayName string
	Summary     string
	JoinedAgo   string
}

type DiveView struct {
	Id              string
	Username        string
	DiveNumber      int
	SiteName        string
	MaxDepth        float64
	DurationMin     int
	Description     string
	DescriptionHTML template.HTML // HTML-rendered description with clickable links
	TimeAgo         string
}

type CommentView struct {
	Author   string
	Body     string
	External bool
	TimeAgo  string
}

func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else if duration < 30*24*time.Hour {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	} else {
		return t.Format("Jan 2, 2006")
	}
}

func toDiveView(dive *domain.Dive) DiveView {
	return DiveView{
		Id:              dive.Id.String(),
		Username:        dive.CreatedBy,
		DiveNumber:      dive.DiveNumber,
		SiteName:        dive.SiteName,
		MaxDepth:        dive.MaxDepth,
		DurationMin:     dive.DurationMin,
		Description:     dive.Description,
		DescriptionHTML: template.HTML(util.MarkdownLinksToHTML(dive.Description)),
		TimeAgo:         formatTimeAgo(dive.CreatedAt),
	}
}

func HandleIndex(c *gin.Context, conf *util.AppConfig) {
	database := db.GetDB()

	// Pagination
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	divesPerPage := 20
	offset := (page - 1) * divesPerPage

	err, dives := database.ReadAllDives()
	if err != nil {
		log.Printf("Failed to read dives: %v", err)
		c.HTML(500, "base.html", gin.H{"Title": "Error", "Error": "Failed to load dive log"})
		return
	}

	if dives == nil {
		dives = &[]domain.Dive{}
	}

	totalDives := len(*dives)

	start := offset
	end := offset + divesPerPage
	if start > totalDives {
		start = totalDives
	}
	if end > totalDives {
		end = totalDives
	}

	paginatedDives := (*dives)[start:end]

	views := make([]DiveView, 0, len(paginatedDives))
	for _, dive := range paginatedDives {
		views = append(views, toDiveView(&dive))
	}

	// Use SSLDomain if federation is enabled, otherwise use Host
	host := conf.Conf.Host
	if conf.Conf.WithAp {
		host = conf.Conf.SslDomain
	}

	data := IndexPageData{
		Title:    "Home",
		Host:     host,
		SSHPort:  conf.Conf.SshPort,
		Dives:    views,
		HasPrev:  page > 1,
		HasNext:  end < totalDives,
		PrevPage: page - 1,
		NextPage: page + 1,
	}

	c.HTML(200, "index.html", data)
}

func HandleProfile(c *gin.Context, username string, conf *util.AppConfig) {
	database := db.GetDB()

	err, account := database.ReadAccByUsername(username)
	if err != nil {
		log.Printf("User not found: %s", username)
		c.HTML(404, "base.html", gin.H{"Title": "Not Found", "Error": "User not found"})
		return
	}

	// Pagination
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	divesPerPage := 20
	offset := (page - 1) * divesPerPage

	err, dives := database.ReadDivesByUserId(account.Id)
	if err != nil {
		log.Printf("Failed to read dives for user %s: %v", username, err)
		c.HTML(500, "base.html", gin.H{"Title": "Error", "Error": "Failed to load dives"})
		return
	}

	if dives == nil {
		dives = &[]domain.Dive{}
	}

	totalDives := len(*dives)

	start := offset
	end := offset + divesPerPage
	if start > totalDives {
		start = totalDives
	}
	if end > totalDives {
		end = totalDives
	}

	paginatedDives := (*dives)[start:end]

	views := make([]DiveView, 0, len(paginatedDives))
	for _, dive := range paginatedDives {
		views = append(views, toDiveView(&dive))
	}

	host := conf.Conf.Host
	if conf.Conf.WithAp {
		host = conf.Conf.SslDomain
	}

	data := ProfilePageData{
		Title:   fmt.Sprintf("@%s", username),
		Host:    host,
		SSHPort: conf.Conf.SshPort,
		User: UserView{
			Username:    account.Username,
			DisplayName: account.DisplayName,
			Summary:     account.Summary,
			JoinedAgo:   formatTimeAgo(account.CreatedAt),
		},
		Dives:      views,
		TotalDives: totalDives,
		HasPrev:    page > 1,
		HasNext:    end < totalDives,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}

	c.HTML(200, "profile.html", data)
}

func HandleDive(c *gin.Context, diveId uuid.UUID, conf *util.AppConfig) {
	database := db.GetDB()

	err, dive := database.ReadDiveById(diveId)
	if err != nil {
		c.HTML(404, "base.html", gin.H{"Title": "Not Found", "Error": "Dive not found"})
		return
	}

	err, likes := database.CountLikesByDiveId(dive.Id)
	if err != nil {
		likes = 0
	}

	err, comments := database.ReadCommentsByDiveId(dive.Id)
	if err != nil {
		comments = &[]domain.DiveComment{}
	}

	commentViews := make([]CommentView, 0)
	if comments != nil {
		for _, comment := range *comments {
			commentViews = append(commentViews, CommentView{
				Author:   commentAuthor(&comment),
				Body:     comment.Body,
				External: comment.External,
				TimeAgo:  formatTimeAgo(comment.CreatedAt),
			})
		}
	}

	host := conf.Conf.Host
	if conf.Conf.WithAp {
		host = conf.Conf.SslDomain
	}

	data := DivePageData{
		Title:    fmt.Sprintf("Dive #%d - %s", dive.DiveNumber, dive.SiteName),
		Host:     host,
		SSHPort:  conf.Conf.SshPort,
		Dive:     toDiveView(dive),
		Likes:    likes,
		Comments: commentViews,
	}

	c.HTML(200, "dive.html", data)
}

// commentAuthor resolves the display handle of a comment author, local or
// federated.
func commentAuthor(comment *domain.DiveComment) string {
	database := db.GetDB()
	if comment.External {
		err, remote := database.ReadRemoteAccountById(comment.AccountId)
		if err == nil && remote != nil {
			return fmt.Sprintf("%s@%s", remote.Username, remote.Domain)
		}
		return "unknown"
	}
	err, acc := database.ReadAccById(comment.AccountId)
	if err == nil && acc != nil {
		return acc.Username
	}
	return "unknown"
}
