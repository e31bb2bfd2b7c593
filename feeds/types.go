// Package feeds turns VNDB release listings into RSS feeds
package feeds

import (
	"strings"

	"vndbrss/vndb"
)

const SiteURL = "https://vndb.org"

// Feed represents a runtime feed instance
type Feed struct {
	// Metadata
	Id          string
	Title       string
	Description string
	Label       string

	PreferAltTitle bool

	// Release filter sent to the API
	Filter vndb.Filter
}

// Path is the route the feed is served on, also used as its cache key
func (f *Feed) Path() string {
	return "/" + f.Id
}

func (f *Feed) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + f.Path()
}

// FeedList keeps feeds in definition order
type FeedList []*Feed

func (l FeedList) Get(id string) (*Feed, bool) {
	for _, feed := range l {
		if feed.Id == id {
			return feed, true
		}
	}
	return nil, false
}
