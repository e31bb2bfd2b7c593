package cmd

import (
	"fmt"
	"time"

	"vndbrss/config"
	"vndbrss/feeds"

	"github.com/urfave/cli/v2"
)

func opmlCmd() *cli.Command {
	return &cli.Command{
		Name:  "opml",
		Usage: "Print the OPML subscription list",
		Description: `Prints an OPML document listing every configured feed, the same
		document the server offers at /export-opml. Set --domain to the public
		address of the server so the feed URLs resolve for subscribers.`,
		Flags: append(addressFlags(), &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to feeds configuration file, the embedded definitions are used when empty",
			EnvVars: []string{"VNDBRSS_CONFIG"},
		}),
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load feed config: %w", err)
			}

			list := feeds.InitializeFeeds(cfg, feeds.CustomFilters{})
			base := baseURL(ctx.String("domain"), ctx.String("host"), ctx.Int("port"))

			opml, err := feeds.BuildOPML(cfg.Title, feeds.GetPublishInfo(list, base), time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(ctx.App.Writer, opml)
			return nil
		},
	}
}
