// Package gemini reads conversations and Deep Research reports from
// gemini.google.com.
package gemini

import (
	"chatmd/internal/site"
)

func init() {
	site.Register(Site{})
}

const (
	defaultTitle = "Gemini Chat Export"
	researchRoot = "deep-research-immersive-panel"
)

// Site is the Gemini adapter.
type Site struct{}

func (Site) Name() string { return "gemini" }

func (Site) Matches(host string) bool {
	return host == "gemini.google.com"
}

func (Site) Profile() site.Profile {
	return site.Profile{
		Selectors: site.Selectors{
			ScrollContainer: `[data-test-id="chat-history-container"]`,
			Turns: []string{
				"div.conversation-container",
				`[data-test-id="conversation-container"]`,
				"[data-turn]",
				".dr-turn",
			},
			FallbackRoot: researchRoot,
			User:         "user-query",
			Assistant:    "model-response",
			Copy: []site.Control{
				{Selector: `button[data-test-id="copy-button"]`},
			},
			RenderRoot: researchRoot,
		},
		Labels: site.Labels{
			User:      "👤 You",
			Assistant: "🤖 Gemini",
		},
		Product:      "Gemini",
		DefaultTitle: defaultTitle,
		RenderTitle:  "Gemini Deep Research Report",
		FilePrefix:   "gemini_chat_export",

		RenderFilePrefix: "gemini_deep_research",
		PairedTurns:      true,
	}
}

// Title is fixed: Gemini page titles do not name the conversation.
func (Site) Title(string, string) string {
	return defaultTitle
}
