package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"chatmd/internal/export"
	"chatmd/internal/sink"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var bulkLimit int

func newBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk [LISTING_URL]",
		Short: "Export every conversation linked from a listing page into one document",
		Long: `bulk opens a page that lists conversations (usually the app's start page
with its sidebar), presses "Show more" until the list is complete and exports
each conversation in turn. The result is a single Markdown document with a
table of contents. Interrupting the run writes what has been exported so far
as a partial document.`,
		Example: `  chatmd bulk https://chatgpt.com/
  chatmd bulk --limit 20 --chrome-profile Default https://claude.ai/recents`,
		Args:         cobra.ExactArgs(1),
		RunE:         runBulk,
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&bulkLimit, "limit", 0, "Export at most this many conversations (0 for all)")
	return cmd
}

func runBulk(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}
	m, err := sink.ParseMode(mode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := openSession(ctx, normalizeURL(args[0]))
	if err != nil {
		return err
	}
	defer sess.Close()

	convs, err := sess.exporter.Discover(ctx, sess.page)
	if err != nil {
		return fmt.Errorf("%s", export.Describe(err, sess.profile.Product))
	}
	if bulkLimit > 0 && len(convs) > bulkLimit {
		convs = convs[:bulkLimit]
	}
	pterm.Info.Printfln("Exporting %d conversations", len(convs))

	res, err := sess.exporter.Bulk(ctx, sess.page, convs, export.Options{Mode: m, FileName: fileName})
	if res != nil {
		for _, c := range res.Failed {
			pterm.Warning.Printfln("skipped %s", c.URL)
		}
	}
	if err != nil {
		return fmt.Errorf("%s", export.Describe(err, sess.profile.Product))
	}

	where := res.Path
	if m == sink.ModeClipboard {
		where = "the clipboard"
	}
	if res.Partial {
		pterm.Warning.Printfln("Interrupted: wrote %d of %d conversations to %s", res.Exported, res.Total, where)
		return nil
	}
	pterm.Success.Printfln("Exported %d of %d conversations to %s", res.Exported, res.Total, where)
	return nil
}
