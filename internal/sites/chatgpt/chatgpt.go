// Package chatgpt reads conversations from chatgpt.com.
package chatgpt

import (
	"strings"

	"chatmd/internal/site"
)

func init() {
	site.Register(Site{})
}

const defaultTitle = "ChatGPT Chat Export"

// Site is the ChatGPT adapter.
type Site struct{}

func (Site) Name() string { return "chatgpt" }

func (Site) Matches(host string) bool {
	return host == "chatgpt.com" || host == "chat.openai.com"
}

func (Site) Profile() site.Profile {
	return site.Profile{
		Selectors: site.Selectors{
			ScrollContainer: "div.flex.h-full.flex-col.overflow-y-auto",
			Turns: []string{
				`article[data-testid^="conversation-turn-"]`,
				`[data-testid^="conversation-turn-"]`,
			},
			FallbackRoot: "main",
			User:         `[data-message-author-role="user"]`,
			Assistant:    `[data-message-author-role="assistant"]`,
			Copy: []site.Control{
				{Selector: `button[data-testid="copy-turn-action-button"]`},
			},
			ConversationLinks: `a[href^="/c/"]`,
		},
		Labels: site.Labels{
			User:      "👤 You",
			Assistant: "🤖 ChatGPT",
		},
		Product:      "ChatGPT",
		DefaultTitle: defaultTitle,
		FilePrefix:   "chatgpt_chat_export",
	}
}

// Title uses the page title unless it is the bare product name.
func (Site) Title(pageTitle, _ string) string {
	t := strings.TrimSpace(pageTitle)
	if t == "" || strings.EqualFold(t, "ChatGPT") {
		return defaultTitle
	}
	return t
}
