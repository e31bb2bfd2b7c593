package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"vndbrss/cache"
	"vndbrss/vndb"

	gofeeds "github.com/gorilla/feeds"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultResults = 20
	MaxResults     = 100 // API page size limit
)

// ReleaseSource queries releases, implemented by *vndb.Client
type ReleaseSource interface {
	Releases(ctx context.Context, query *vndb.ReleaseQuery) (*vndb.ReleaseResponse, error)
}

type GeneratorConfig struct {
	// Results is the number of releases per feed, at most 100. Unset or
	// negative values use the default of 20.
	Results int

	// CacheTTL is how long a rendered feed is served before refetching
	CacheTTL time.Duration

	// Language of the RSS channel
	Language string

	// BaseURL is the public address of the server, used for the channel's
	// self link. No self link is written when empty.
	BaseURL string

	Images ImageConfig

	// Now overrides the clock, used in tests
	Now func() time.Time
}

// Generator renders feeds, serving them from cache while fresh and falling
// back to the last rendered version when the API fails.
type Generator struct {
	source ReleaseSource
	config GeneratorConfig
	cache  *cache.Cache[string]
	items  *ItemBuilder
	group  singleflight.Group
}

func NewGenerator(source ReleaseSource, config GeneratorConfig) *Generator {
	switch {
	case config.Results < 1:
		config.Results = DefaultResults
	case config.Results > MaxResults:
		config.Results = MaxResults
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Generator{
		source: source,
		config: config,
		cache:  cache.NewCache[string](cache.CacheConfig{TTL: config.CacheTTL, Now: config.Now}),
		items:  NewItemBuilder(config.Images),
	}
}

// Cache exposes the feed cache, keyed by feed path
func (g *Generator) Cache() *cache.Cache[string] {
	return g.cache
}

// Generate returns the RSS document of feed
func (g *Generator) Generate(ctx context.Context, feed *Feed) (string, error) {
	key := feed.Path()

	if xml, ok := g.cache.Get(key); ok {
		cacheLookups.WithLabelValues(feed.Id, "hit").Inc()
		return xml, nil
	}
	cacheLookups.WithLabelValues(feed.Id, "miss").Inc()

	// Concurrent misses share one upstream call. The call is detached from
	// the first caller so a disconnecting reader does not fail the others.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := g.group.Do(key, func() (interface{}, error) {
		if xml, ok := g.cache.Get(key); ok {
			return xml, nil
		}
		return g.refresh(fetchCtx, feed)
	})
	if err != nil {
		if stale, ok := g.cache.Stale(key); ok {
			cacheLookups.WithLabelValues(feed.Id, "stale").Inc()
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Warn("Serving stale feed after refresh failure")
			return stale, nil
		}
		return "", err
	}

	return result.(string), nil
}

func (g *Generator) refresh(ctx context.Context, feed *Feed) (string, error) {
	start := time.Now()
	resp, err := g.source.Releases(ctx, vndb.NewestReleases(feed.Filter, g.config.Results))
	upstreamDuration.WithLabelValues(feed.Id).Observe(time.Since(start).Seconds())
	if err != nil {
		upstreamRequests.WithLabelValues(feed.Id, "error").Inc()
		return "", fmt.Errorf("failed to fetch releases for %s: %w", feed.Id, err)
	}
	upstreamRequests.WithLabelValues(feed.Id, "ok").Inc()

	xml, err := g.Render(feed, resp.Results)
	if err != nil {
		return "", fmt.Errorf("failed to render feed %s: %w", feed.Id, err)
	}

	g.cache.Set(feed.Path(), xml)

	log.WithFields(log.Fields{
		"feed":     feed.Id,
		"releases": len(resp.Results),
		"bytes":    len(xml),
	}).Info("Feed refreshed")

	return xml, nil
}

// Render serializes releases as an RSS document for feed
func (g *Generator) Render(feed *Feed, releases []vndb.Release) (string, error) {
	items := make([]*gofeeds.Item, 0, len(releases))
	for _, release := range releases {
		items = append(items, g.items.Build(feed, release))
	}

	rss := (&gofeeds.Rss{Feed: &gofeeds.Feed{
		Title:       feed.Title,
		Link:        &gofeeds.Link{Href: SiteURL},
		Description: feed.Description,
		Created:     g.config.Now().UTC(),
		Items:       items,
	}}).RssFeed()
	rss.Language = g.config.Language
	rss.Generator = "vndbrss"

	channel := &rssChannel{RssFeed: rss}
	if g.config.BaseURL != "" {
		channel.AtomLink = &atomLink{
			Href: feed.URL(g.config.BaseURL),
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}

	return gofeeds.ToXML(&rssDocument{channel: channel})
}

// rssDocument is gorilla's RSS 2.0 envelope plus the atom namespace, which
// its own envelope does not declare.
type rssDocument struct {
	channel *rssChannel
}

type rssDocumentXml struct {
	XMLName          xml.Name `xml:"rss"`
	Version          string   `xml:"version,attr"`
	ContentNamespace string   `xml:"xmlns:content,attr"`
	AtomNamespace    string   `xml:"xmlns:atom,attr"`
	Channel          *rssChannel
}

func (d *rssDocument) FeedXml() interface{} {
	return &rssDocumentXml{
		Version:          "2.0",
		ContentNamespace: "http://purl.org/rss/1.0/modules/content/",
		AtomNamespace:    "http://www.w3.org/2005/Atom",
		Channel:          d.channel,
	}
}

// rssChannel is the gorilla channel with an <atom:link rel="self"> in front
type rssChannel struct {
	AtomLink *atomLink
	*gofeeds.RssFeed
}

type atomLink struct {
	XMLName xml.Name `xml:"atom:link"`
	Href    string   `xml:"href,attr"`
	Rel     string   `xml:"rel,attr"`
	Type    string   `xml:"type,attr"`
}
