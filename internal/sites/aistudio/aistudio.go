// Package aistudio reads conversations from aistudio.google.com.
package aistudio

import (
	"time"

	"chatmd/internal/config"
	"chatmd/internal/site"
)

func init() {
	site.Register(Site{})
}

const defaultTitle = "AI Studio Chat Export"

// Site is the AI Studio adapter. Each ms-chat-turn holds a single role; the
// model's thinking is a turn of its own and is skipped.
type Site struct{}

func (Site) Name() string { return "aistudio" }

func (Site) Matches(host string) bool {
	return host == "aistudio.google.com"
}

func (Site) Profile() site.Profile {
	return site.Profile{
		Selectors: site.Selectors{
			Turns:     []string{"ms-chat-turn"},
			SkipTurn:  "ms-thought-chunk",
			User:      `.user-prompt-container[data-turn-role="User"]`,
			Assistant: `.model-prompt-container[data-turn-role="Model"]`,
			Copy: []site.Control{
				{Selector: `button[aria-label="Open options"]`},
				{Selector: "button", Text: "copy markdown", Global: true},
			},
		},
		Labels: site.Labels{
			User:      "👤 You",
			Assistant: "🤖 AI Studio",
		},
		Product:      "AI Studio",
		DefaultTitle: defaultTitle,
		FilePrefix:   "aistudio_chat_export",
		Tune: func(t config.Timing) config.Timing {
			// The options menu animates in before its items are clickable.
			t.HoverDelay = 300 * time.Millisecond
			t.StepDelay = 1500 * time.Millisecond
			return t
		},
	}
}

func (Site) Title(string, string) string {
	return defaultTitle
}
