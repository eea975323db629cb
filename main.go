package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"chatmd/internal/export"
	"chatmd/internal/logger"
	"chatmd/internal/selection"
	"chatmd/internal/sink"
	_ "chatmd/internal/sites/aistudio"
	_ "chatmd/internal/sites/chatgpt"
	_ "chatmd/internal/sites/claude"
	_ "chatmd/internal/sites/gemini"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	siteName     string
	fromIndex    int
	mode         string
	fileName     string
	selectPreset string
	toggles      []string
	outputDir    string
	waitFor      string
	waitTarget   string
	timeout      time.Duration
	showUI       bool
	proxyURL     string
	controlURL   string
	userDataDir  string
	chromeProf   string
	configDir    string
	verbose      bool
)

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:     "chatmd [URL]",
		Short:   "Export AI chat conversations to Markdown",
		Version: version,
		Long: `chatmd opens a chat conversation in a browser, loads its full history
and writes it out as a Markdown document. Assistant replies are taken from the
chat's own copy button so formatting survives; anything that cannot be copied
is recovered from the page or marked with a note.

Supported sites: Gemini, ChatGPT, Claude and AI Studio.`,
		Example: `  # Export a conversation to the current directory
  chatmd https://gemini.google.com/app/0123456789abcdef

  # Reuse your Chrome login and only keep the assistant's replies
  chatmd --chrome-profile Default --select assistant https://chatgpt.com/c/abc

  # Start from the fifth message and copy the result to the clipboard
  chatmd --from 5 --mode clipboard https://claude.ai/chat/1234

  # Export every conversation listed in the sidebar
  chatmd bulk https://chatgpt.com/

  # Keep an "Export Chat" button in the page
  chatmd watch --showui https://aistudio.google.com/prompts/xyz`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(0)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(verbose)
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&siteName, "site", "", "Site adapter (gemini, chatgpt, claude, aistudio); detected from the URL by default")
	pf.StringVarP(&mode, "mode", "m", "file", "Export mode (file, clipboard)")
	pf.StringVarP(&fileName, "name", "n", "", "Custom output file name")
	pf.StringVarP(&outputDir, "dir", "o", ".", "Directory to write exports to")
	pf.StringVarP(&waitFor, "wait-for", "w", "load", "Wait strategy (load, element, time)")
	pf.StringVarP(&waitTarget, "wait-target", "T", "", "Wait target (selector for 'element' strategy, milliseconds for 'time' strategy)")
	pf.DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Page load timeout")
	pf.BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	pf.StringVarP(&proxyURL, "proxy", "p", os.Getenv("CHATMD_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to CHATMD_PROXY env var")
	pf.StringVar(&controlURL, "control-url", os.Getenv("CHATMD_CONTROL_URL"), "DevTools URL of a running browser to attach to, defaults to CHATMD_CONTROL_URL env var")
	pf.StringVar(&userDataDir, "user-data-dir", os.Getenv("CHATMD_USER_DATA_DIR"), "Browser user data directory, defaults to CHATMD_USER_DATA_DIR or one kept under the config directory")
	pf.StringVar(&chromeProf, "chrome-profile", "", "Use the installed Chrome's profile with this name, e.g. Default")
	pf.StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.chatmd)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.Flags().IntVar(&fromIndex, "from", 1, "First message to export (1-based)")
	rootCmd.Flags().StringVar(&selectPreset, "select", "", "Selection preset (all, assistant, none)")
	rootCmd.Flags().StringSliceVar(&toggles, "toggle", nil, "Flip one message after the preset, e.g. user:3 or assistant:5 (repeatable)")

	rootCmd.AddCommand(newBulkCmd(), newWatchCmd(), newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
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

	res, err := sess.exporter.Run(ctx, sess.page, opts)
	if err != nil {
		return fmt.Errorf("%s", export.Describe(err, sess.profile.Product))
	}
	report(res, opts.Mode)
	return nil
}

func validateFlags() error {
	validStrategies := map[string]bool{
		"load":    true,
		"element": true,
		"time":    true,
	}
	if !validStrategies[waitFor] {
		return fmt.Errorf("invalid wait strategy: %s", waitFor)
	}
	if waitFor == "element" && waitTarget == "" {
		return fmt.Errorf("--wait-target is required when using 'element' wait strategy")
	}
	if waitFor == "time" && waitTarget == "" {
		return fmt.Errorf("--wait-target is required when using 'time' wait strategy")
	}
	if fromIndex < 1 {
		return fmt.Errorf("--from must be 1 or greater")
	}
	return nil
}

// exportOptions builds export options from the command line.
func exportOptions() (export.Options, error) {
	if err := validateFlags(); err != nil {
		return export.Options{}, err
	}
	m, err := sink.ParseMode(mode)
	if err != nil {
		return export.Options{}, err
	}
	opts := export.Options{From: fromIndex, Mode: m, FileName: fileName}

	if selectPreset != "" {
		if opts.Preset, err = selection.ParsePreset(selectPreset); err != nil {
			return export.Options{}, err
		}
	}
	for _, t := range toggles {
		k, err := selection.ParseKey(t)
		if err != nil {
			return export.Options{}, err
		}
		opts.Toggles = append(opts.Toggles, k)
	}
	return opts, nil
}

func report(res *export.Result, m sink.Mode) {
	for _, f := range res.Failures {
		pterm.Warning.Printfln("message %d (%s): %s", f.Index+1, f.Role, f.Reason)
	}
	if m == sink.ModeClipboard {
		pterm.Success.Printfln("Copied %q to the clipboard (%d messages)", res.Title, res.Messages)
		return
	}
	pterm.Success.Printfln("Saved %q to %s (%d messages)", res.Title, res.Path, res.Messages)
}

// normalizeURL normalizes URL, adds https:// if no protocol prefix
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	if !strings.HasPrefix(strings.ToLower(rawURL), "http://") && !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return "https://" + rawURL
	}
	return rawURL
}
