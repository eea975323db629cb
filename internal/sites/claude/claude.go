// Package claude reads conversations from claude.ai.
package claude

import (
	"net/url"
	"regexp"
	"strings"

	"chatmd/internal/site"
)

func init() {
	site.Register(Site{})
}

const defaultTitle = "Claude Chat"

var titleSuffix = regexp.MustCompile(`(?i)\s*[-–]\s*Claude\s*$`)

// Site is the Claude adapter.
type Site struct{}

func (Site) Name() string { return "claude" }

func (Site) Matches(host string) bool {
	return host == "claude.ai"
}

func (Site) Profile() site.Profile {
	return site.Profile{
		Selectors: site.Selectors{
			Turns: []string{
				"[data-test-render-count]",
				`[data-testid="user-message"], .font-claude-response`,
				`[role="article"]`,
				`div[class*="message"]`,
			},
			FallbackRoot: "main",
			User:         `[data-testid="user-message"]`,
			Assistant:    `.font-claude-response, [data-testid="assistant-message"]`,
			Copy: []site.Control{
				{Selector: `button[data-testid="action-bar-copy"], button[aria-label="Copy"]`},
			},
			ConversationLinks: `a[href^="/chat/"]`,
		},
		Labels: site.Labels{
			User:      "👤 You",
			Assistant: "🤖 Claude",
		},
		Product:      "Claude",
		DefaultTitle: defaultTitle,
		FilePrefix:   "claude_chat_export",
	}
}

// Title drops the " - Claude" suffix. A generic title falls back to the
// conversation id from the URL.
func (Site) Title(pageTitle, pageURL string) string {
	t := strings.TrimSpace(titleSuffix.ReplaceAllString(pageTitle, ""))
	if t != "" && !strings.EqualFold(t, "claude") {
		return t
	}
	if id := conversationID(pageURL); id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		return defaultTitle + " " + id
	}
	return defaultTitle
}

func conversationID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	id, ok := strings.CutPrefix(u.Path, "/chat/")
	if !ok {
		return ""
	}
	return strings.Trim(id, "/")
}
