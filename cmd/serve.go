package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vndbrss/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	flags := append(addressFlags(), feedFlags()...)
	flags = append(flags, &cli.StringFlag{
		Name:    "cors-origins",
		Value:   "*",
		Usage:   "Comma separated origins allowed to read the feeds",
		EnvVars: []string{"VNDBRSS_CORS_ORIGINS"},
	})

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the RSS feeds",
		Description: `Starts the HTTP server with one route per configured feed,
		a homepage listing them, an OPML export, a health check and metrics.`,
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			host := ctx.String("host")
			port := ctx.Int("port")
			base := baseURL(ctx.String("domain"), host, port)

			rt, err := setupRuntime(ctx, base)
			if err != nil {
				return err
			}

			app := server.Server(&server.ServerConfig{
				Title:       rt.config.Title,
				BaseURL:     base,
				Feeds:       rt.feeds,
				Generator:   rt.generator,
				CORSOrigins: ctx.String("cors-origins"),
			})

			// Graceful shutdown
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			done := make(chan struct{})

			go func() {
				<-sigs
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.WithFields(log.Fields{
						"error": err,
					}).Error("Error shutting down server")
				}
				close(done)
			}()

			for _, feed := range rt.feeds {
				log.WithFields(log.Fields{
					"feed": feed.Id,
					"url":  feed.URL(base),
				}).Info("Serving feed")
			}

			addr := fmt.Sprintf("%s:%d", host, port)
			log.Infof("Starting server on %s", addr)
			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}

			<-done
			log.Info("Done!")
			return nil
		},
	}
}
