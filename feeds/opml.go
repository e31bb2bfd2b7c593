package feeds

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"
)

type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    OPMLHead `xml:"head"`
	Body    OPMLBody `xml:"body"`
}

type OPMLHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated"`
}

type OPMLBody struct {
	Outlines []OPMLOutline `xml:"outline"`
}

type OPMLOutline struct {
	Type   string `xml:"type,attr"`
	Text   string `xml:"text,attr"`
	Title  string `xml:"title,attr"`
	XMLURL string `xml:"xmlUrl,attr"`
}

// BuildOPML renders an OPML 2.0 subscription list for the given feeds
func BuildOPML(title string, infos []PublishInfo, created time.Time) (string, error) {
	doc := OPML{
		Version: "2.0",
		Head: OPMLHead{
			Title:       title,
			DateCreated: created.UTC().Format(http.TimeFormat),
		},
	}

	for _, info := range infos {
		doc.Body.Outlines = append(doc.Body.Outlines, OPMLOutline{
			Type:   "rss",
			Text:   info.Title,
			Title:  info.Title,
			XMLURL: info.URL,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode opml: %w", err)
	}
	return xml.Header + string(data), nil
}
