package web

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
)

func GetRSS(conf *util.AppConfig, username string) (string, error) {

	var err error
	var dives *[]domain.Dive
	var title string
	var createdBy string
	var email string

	link := fmt.Sprintf("http://%s:%d/feed", conf.Conf.Host, conf.Conf.HttpPort)

	if username != "" {
		err, dives = db.GetDB().ReadDivesByUsername(username)
		if err != nil || *dives == nil {
			log.Println(fmt.Sprintf("Could not get dives from %s!", username), err)
			return "", errors.New("error retrieving dives by username")
		}
		title = fmt.Sprintf("Seadrift Dives - %s", username)
		createdBy = (*dives)[0].CreatedBy
		email = fmt.Sprintf("%s@seadrift", (*dives)[0].CreatedBy)
		link = fmt.Sprintf("%s?username=%s", link, username)
	} else {
		err, dives = db.GetDB().ReadAllDives()
		if err != nil || *dives == nil {
			log.Println("Could not get dives!", err)
			return "", errors.New("error retrieving dives")
		}
		title = "All Seadrift Dives"
		createdBy = "everyone"
		email = fmt.Sprintf("%s@seadrift", createdBy)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: "dive log feed",
		Author:      &feeds.Author{Name: createdBy, Email: email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, dive := range *dives {
		email := fmt.Sprintf("%s@seadrift", dive.CreatedBy)
		feedItems = append(feedItems,
			&feeds.Item{
				Id:      dive.Id.String(),
				Title:   fmt.Sprintf("Dive #%d - %s", dive.DiveNumber, dive.SiteName),
				Link:    &feeds.Link{Href: fmt.Sprintf("http://%s:%d/feed/%s", conf.Conf.Host, conf.Conf.HttpPort, dive.Id)},
				Content: diveFeedContent(&dive),
				Author:  &feeds.Author{Name: dive.CreatedBy, Email: email},
				Created: dive.CreatedAt,
			})
	}

	feed.Items = feedItems
	return feed.ToRss()
}

func GetRSSItem(conf *util.AppConfig, id uuid.UUID) (string, error) {
	err, dive := db.GetDB().ReadDiveById(id)

	if err != nil || dive == nil {
		log.Println("Could not get dive!", err)
		return "", errors.New("error retrieving dive by id")
	}

	email := fmt.Sprintf("%s@seadrift", dive.CreatedBy)
	url := fmt.Sprintf("http://%s:%d/feed/%s", conf.Conf.Host, conf.Conf.HttpPort, dive.Id)

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Dive #%d - %s", dive.DiveNumber, dive.SiteName),
		Link:        &feeds.Link{Href: url},
		Description: "single dive",
		Author:      &feeds.Author{Name: dive.CreatedBy, Email: email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item

	feedItems = append(feedItems,
		&feeds.Item{
			Id:      dive.Id.String(),
			Title:   fmt.Sprintf("Dive #%d - %s", dive.DiveNumber, dive.SiteName),
			Link:    &feeds.Link{Href: url},
			Content: diveFeedContent(dive),
			Author:  &feeds.Author{Name: dive.CreatedBy, Email: email},
			Created: dive.CreatedAt,
		})

	feed.Items = feedItems
	return feed.ToRss()
}

func diveFeedContent(dive *domain.Dive) string {
	content := fmt.Sprintf("Max depth %.1fm, %d minutes.", dive.MaxDepth, dive.DurationMin)
	if dive.Description != "" {
		content += " " + dive.Description
	}
	return content
}
