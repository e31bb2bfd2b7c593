package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Print one feed to the command line",
		Description: `Fetches the newest releases for a single feed once and prints the
		RSS document to stdout. Useful to check filters and tokens without
		starting the server.

		Prints all log messages to stderr.`,
		Flags: append(append(addressFlags(), feedFlags()...), &cli.StringFlag{
			Name:     "feed",
			Aliases:  []string{"f"},
			Usage:    "Id of the feed to fetch, e.g. offi-en",
			Required: true,
		}),
		Action: func(ctx *cli.Context) error {
			// Keep stdout for the feed
			log.SetOutput(os.Stderr)

			base := baseURL(ctx.String("domain"), ctx.String("host"), ctx.Int("port"))
			rt, err := setupRuntime(ctx, base)
			if err != nil {
				return err
			}

			id := ctx.String("feed")
			feed, ok := rt.feeds.Get(id)
			if !ok {
				return fmt.Errorf("unknown feed %q", id)
			}

			xml, err := rt.generator.Generate(ctx.Context, feed)
			if err != nil {
				return err
			}

			fmt.Fprintln(ctx.App.Writer, xml)
			return nil
		},
	}
}
