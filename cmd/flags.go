package cmd

import (
	"fmt"
	"strings"
	"time"

	"vndbrss/config"
	"vndbrss/feeds"
	"vndbrss/vndb"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultCacheTime = 5 * time.Minute

// Flags shared by every command that renders feeds
func feedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to feeds configuration file, the embedded definitions are used when empty",
			EnvVars: []string{"VNDBRSS_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "api-host",
			Value:   vndb.DefaultAPIHost,
			Usage:   "VNDB API base URL",
			EnvVars: []string{"VNDBRSS_API_HOST"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "VNDB API token",
			EnvVars: []string{"VNDBRSS_TOKEN", "TOKEN"},
		},
		&cli.Int64Flag{
			Name:    "cache-time",
			Value:   defaultCacheTime.Milliseconds(),
			Usage:   "How long a feed is cached, in milliseconds",
			EnvVars: []string{"VNDBRSS_CACHE_TIME", "CACHE_TIME"},
		},
		&cli.IntFlag{
			Name:    "feed-number",
			Value:   feeds.DefaultResults,
			Usage:   "Number of releases per feed (1-100)",
			EnvVars: []string{"VNDBRSS_FEED_NUMBER", "FEED_NUMBER"},
		},
		&cli.BoolFlag{
			Name:    "display-image",
			Value:   true,
			Usage:   "Embed release images in item descriptions",
			EnvVars: []string{"VNDBRSS_DISPLAY_IMAGE", "DISPLAY_IMAGE"},
		},
		&cli.StringFlag{
			Name:    "safety-mode",
			Value:   "SFW",
			Usage:   "SFW hides suggestive and violent images, NSFW shows all of them",
			EnvVars: []string{"VNDBRSS_SAFETY_MODE", "SAFETY_MODE"},
		},
		&cli.StringFlag{
			Name:    "include-media",
			Usage:   "Comma separated release media, a release matches any of them",
			EnvVars: []string{"INCLUDE_MEDIA"},
		},
		&cli.StringFlag{
			Name:    "exclude-tag",
			Usage:   "Comma separated VN tag ids to leave out",
			EnvVars: []string{"EXCLUDE_TAG"},
		},
		&cli.StringFlag{
			Name:    "exclude-version",
			Usage:   "Comma separated release types to leave out",
			EnvVars: []string{"EXCLUDE_VERSION"},
		},
		&cli.StringFlag{
			Name:    "include-platform",
			Usage:   "Comma separated platforms, a release matches any of them",
			EnvVars: []string{"INCLUDE_PLATFORM"},
		},
	}
}

// runtime is everything a command needs to render feeds
type runtime struct {
	config    *config.TomlConfig
	feeds     feeds.FeedList
	generator *feeds.Generator
}

// setupRuntime loads the feeds and builds the generator. base is the public
// address feeds link to as their self URL.
func setupRuntime(ctx *cli.Context, base string) (*runtime, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load feed config: %w", err)
	}

	custom := feeds.CustomFilters{
		IncludeMedia:     feeds.SplitList(ctx.String("include-media")),
		ExcludeTags:      feeds.SplitList(ctx.String("exclude-tag")),
		ExcludeVersions:  feeds.SplitList(ctx.String("exclude-version")),
		IncludePlatforms: feeds.SplitList(ctx.String("include-platform")),
	}
	feedList := feeds.InitializeFeeds(cfg, custom)

	cacheTime := time.Duration(ctx.Int64("cache-time")) * time.Millisecond
	if cacheTime <= 0 {
		cacheTime = defaultCacheTime
	}

	client := vndb.NewClient(vndb.ClientConfig{
		Host:      ctx.String("api-host"),
		Token:     ctx.String("token"),
		UserAgent: ctx.App.Name,
	})

	generator := feeds.NewGenerator(client, feeds.GeneratorConfig{
		Results:  ctx.Int("feed-number"),
		CacheTTL: cacheTime,
		Language: cfg.Language,
		BaseURL:  base,
		Images: feeds.ImageConfig{
			Display: ctx.Bool("display-image"),
			NSFW:    strings.EqualFold(ctx.String("safety-mode"), "NSFW"),
		},
	})

	log.WithFields(log.Fields{
		"feeds":     len(feedList),
		"cacheTime": cacheTime,
		"apiHost":   ctx.String("api-host"),
		"custom":    custom,
	}).Info("Feeds configured")

	return &runtime{config: cfg, feeds: feedList, generator: generator}, nil
}

// baseURL is the public address feeds are linked under
func baseURL(domain, host string, port int) string {
	if domain != "" {
		return strings.TrimRight(domain, "/")
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Flags describing where the server is reachable
func addressFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "127.0.0.1",
			Usage:   "Address to listen on",
			EnvVars: []string{"VNDBRSS_HOST", "HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   3000,
			Usage:   "Port to listen on",
			EnvVars: []string{"VNDBRSS_PORT", "PORT"},
		},
		&cli.StringFlag{
			Name:    "domain",
			Usage:   "Public base URL of the server, defaults to http://host:port",
			EnvVars: []string{"VNDBRSS_DOMAIN", "DOMAIN"},
		},
	}
}
