package feeds

import (
	"fmt"

	"vndbrss/vndb"

	gofeeds "github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
)

// ImageConfig controls which release images end up in item descriptions
type ImageConfig struct {
	// Display turns images off entirely when false
	Display bool

	// NSFW disables the safety filter
	NSFW bool
}

// ItemBuilder renders releases into feed items
type ItemBuilder struct {
	images    ImageConfig
	sanitizer *bluemonday.Policy
}

func NewItemBuilder(images ImageConfig) *ItemBuilder {
	return &ItemBuilder{
		images:    images,
		sanitizer: descriptionPolicy(),
	}
}

// descriptionPolicy allows exactly the markup the formatters emit.
// Release notes are user written, anything else is stripped.
func descriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em", "u", "del", "blockquote", "pre", "code", "br", "span")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").OnElements("span", "img")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https")
	return p
}

func ReleaseURL(id string) string {
	return SiteURL + "/" + id
}

func (b *ItemBuilder) Build(feed *Feed, release vndb.Release) *gofeeds.Item {
	title := ItemTitle(release, feed.PreferAltTitle)
	link := ReleaseURL(release.ID)

	return &gofeeds.Item{
		Id:          link,
		Title:       title,
		Link:        &gofeeds.Link{Href: link},
		Description: b.Description(feed, release),
		Created:     vndb.ParseReleased(release.Released),
	}
}

// Description renders the item body: label, title link, platforms,
// external links, notes and images.
func (b *ItemBuilder) Description(feed *Feed, release vndb.Release) string {
	title := ItemTitle(release, feed.PreferAltTitle)
	titleLink := fmt.Sprintf(`<a href="%s">%s</a>`, ReleaseURL(release.ID), title)

	description := feed.Label + " " + titleLink + " " +
		PlatformsText(release.Platforms) +
		LinksHTML(release.ExtLinks, LinkSeparator) +
		NotesHTML(release.Notes) +
		b.imagesHTML(release)

	return b.sanitizer.Sanitize(description)
}

func (b *ItemBuilder) imagesHTML(release vndb.Release) string {
	if len(release.Images) == 0 || !b.images.Display {
		return ""
	}

	kept, excluded := FilterImages(release.Images, b.images.NSFW)
	for _, image := range excluded {
		log.WithFields(log.Fields{
			"release":   release.ID,
			"url":       image.URL,
			"sexual":    image.Sexual,
			"violence":  image.Violence,
			"votecount": image.VoteCount,
		}).Debug("Exclude image")
	}

	return ImagesHTML(kept)
}
