package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "vndbrss",
		Usage: "RSS feeds of new VNDB releases",
		Description: `Serves RSS feeds of the newest visual novel releases listed on
		vndb.org, one feed per language and translation kind.

		Releases are fetched from the VNDB API on demand and cached in memory.
		When the API is unavailable the last rendered feed is served instead.

		Flags can generally be set via environment variables, e.g.:

		--port => VNDBRSS_PORT=3000 (or PORT=3000)
		--token => VNDBRSS_TOKEN=... (or TOKEN=...)
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"VNDBRSS_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			opmlCmd(),
			fetchCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return cli.ShowAppHelp(ctx)
		},
	}
}

// Execute runs the app with the process arguments, loading .env first so its
// values are visible as flag defaults
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithFields(log.Fields{
			"error": err,
		}).Warn("Could not load .env file")
	}

	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
