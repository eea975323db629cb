package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"chatmd/internal/config"
	"chatmd/internal/export"
	"chatmd/internal/logger"
	"chatmd/internal/sink"
	"chatmd/internal/trigger"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const buttonLabel = "Export Chat"

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [URL]",
		Short: "Open a chat with an \"Export Chat\" button placed in the page",
		Long: `watch opens the chat in a visible browser and adds an "Export Chat" button
to the page. Each click exports the conversation currently shown, so you can
browse between conversations and export the ones you want. The button follows
the hide_export_button preference; changing it with "chatmd config set" takes
effect immediately.`,
		Example: `  chatmd watch https://gemini.google.com/app
  chatmd watch --select assistant --mode clipboard https://chatgpt.com/`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWatch,
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&fromIndex, "from", 1, "First message to export (1-based)")
	cmd.Flags().StringVar(&selectPreset, "select", "", "Selection preset (all, assistant, none)")
	cmd.Flags().StringSliceVar(&toggles, "toggle", nil, "Flip one message after the preset, e.g. user:3 or assistant:5 (repeatable)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	// The button is only useful in a window someone can click.
	showUI = true
	opts, err := exportOptions()
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

	ctl := trigger.New(sess.page, buttonLabel, func(ctx context.Context) (string, error) {
		res, err := sess.exporter.Run(ctx, sess.page, opts)
		if err != nil {
			logger.Warn("export failed: %v", err)
			return "", errors.New(export.Describe(err, sess.profile.Product))
		}
		report(res, opts.Mode)
		return notice(res, opts.Mode), nil
	})

	visible := func(s *config.Store) bool { return !s.GetBool(config.KeyHideExportButton) }
	if err := ctl.Install(ctx, visible(sess.store)); err != nil {
		return err
	}

	// Pages that navigate replace the document, so put the button back.
	sess.page.OnNavigate(ctx, func() {
		if err := ctl.Reconcile(ctx, visible(sess.store)); err != nil {
			logger.Debug("%v", err)
		}
	})
	go func() {
		err := sess.store.Watch(ctx, 200*time.Millisecond, func(s *config.Store) {
			if err := ctl.Reconcile(ctx, visible(s)); err != nil {
				logger.Debug("%v", err)
			}
		})
		if err != nil {
			logger.Warn("preference changes will not be picked up: %v", err)
		}
	}()

	pterm.Info.Printfln("Watching %s, press Ctrl+C to stop", args[0])
	<-ctx.Done()

	ctl.Wait()
	if err := ctl.Close(context.Background()); err != nil {
		logger.Debug("failed to remove export button: %v", err)
	}
	return nil
}

func notice(res *export.Result, m sink.Mode) string {
	msg := fmt.Sprintf("Exported %d messages to %s", res.Messages, res.Path)
	if m == sink.ModeClipboard {
		msg = fmt.Sprintf("Copied %d messages to the clipboard", res.Messages)
	}
	if n := len(res.Failures); n > 0 {
		msg += fmt.Sprintf(" (%d could not be copied and carry a note)", n)
	}
	return msg
}
