package vndb

import (
	"strings"
	"time"
)

// DefaultReleaseFields lists the release fields needed to render a feed item
const DefaultReleaseFields = "id,title,alttitle,released,extlinks{url,label},platforms,notes,images{url,sexual,violence,votecount}"

// ReleaseQuery is the request body of POST /release
type ReleaseQuery struct {
	Filters Filter `json:"filters"`
	Fields  string `json:"fields"`
	Sort    string `json:"sort,omitempty"`
	Reverse bool   `json:"reverse"`
	Results int    `json:"results,omitempty"`
}

// NewestReleases returns a query for the latest releases matching filter
func NewestReleases(filter Filter, results int) *ReleaseQuery {
	return &ReleaseQuery{
		Filters: filter,
		Fields:  DefaultReleaseFields,
		Sort:    "released",
		Reverse: true,
		Results: results,
	}
}

type ReleaseResponse struct {
	Results []Release `json:"results"`
	More    bool      `json:"more"`
}

type Release struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AltTitle  string    `json:"alttitle"` // null decodes to ""
	Released  string    `json:"released"`
	ExtLinks  []ExtLink `json:"extlinks"`
	Platforms []string  `json:"platforms"`
	Notes     *string   `json:"notes"`
	Images    []Image   `json:"images"`
}

type ExtLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Image flags are vote averages: 0 = safe/tame, 1 = suggestive/violent,
// 2 = explicit/brutal.
type Image struct {
	URL       string  `json:"url"`
	Sexual    float64 `json:"sexual"`
	Violence  float64 `json:"violence"`
	VoteCount int     `json:"votecount"`
}

var releasedLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseReleased parses a VNDB release date. Partial dates resolve to the
// first day of the period. Unknown dates ("TBA", "") yield the zero time.
func ParseReleased(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range releasedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
