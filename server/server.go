package server

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"vndbrss/feeds"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

//go:embed views/*
var views embed.FS

var homeTemplate = template.Must(template.ParseFS(views, "views/home.html"))

const OPMLPath = "/export-opml"

type ServerConfig struct {
	// Title of the homepage and the OPML export
	Title string

	// Public base URL used in feed links, without trailing slash
	BaseURL string

	// Feeds served, one route each
	Feeds feeds.FeedList

	Generator *feeds.Generator

	// Comma separated list of origins allowed to read the feeds
	CORSOrigins string
}

type homeData struct {
	Title    string
	Feeds    []feeds.PublishInfo
	OPMLPath string
}

// Returns a fiber.App serving every configured feed
func Server(config *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "vndbrss",
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":    c.Method(),
			"route":     c.Route().Path,
			"status":    c.Response().StatusCode(),
			"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
			"latency":   time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(compress.New())

	origins := config.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: fiber.MethodGet + "," + fiber.MethodHead,
	}))

	infos := feeds.GetPublishInfo(config.Feeds, config.BaseURL)

	app.Get("/", func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		err := homeTemplate.Execute(&buf, homeData{
			Title:    config.Title,
			Feeds:    infos,
			OPMLPath: OPMLPath,
		})
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error rendering homepage")
			return c.Status(fiber.StatusInternalServerError).SendString("Homepage load error")
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	app.Get(OPMLPath, func(c *fiber.Ctx) error {
		opml, err := feeds.BuildOPML(config.Title, infos, time.Now())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error building opml")
			return c.Status(fiber.StatusInternalServerError).SendString("OPML export error")
		}

		c.Type("xml", "utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="vndbrss.opml"`)
		return c.SendString(opml)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"feeds":  len(config.Feeds),
			"cached": config.Generator.Cache().Fresh(),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	for _, feed := range config.Feeds {
		app.Get(feed.Path(), feedHandler(config.Generator, feed))
	}

	return app
}

func feedHandler(generator *feeds.Generator, feed *feeds.Feed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		xml, err := generator.Generate(c.UserContext(), feed)
		if err != nil {
			log.WithFields(log.Fields{
				"feed":  feed.Id,
				"error": err,
			}).Error("Error generating feed")
			return c.Status(fiber.StatusInternalServerError).SendString("Generate RSS error")
		}

		c.Type("xml", "utf-8")
		return c.SendString(xml)
	}
}
