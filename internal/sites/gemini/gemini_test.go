package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatmd/internal/site"
)

func TestProfile(t *testing.T) {
	p := Site{}.Profile()

	assert.True(t, p.PairedTurns)
	assert.Equal(t, "div.conversation-container", p.Selectors.Turns[0])
	assert.Equal(t, p.Selectors.FallbackRoot, p.Selectors.RenderRoot)
	assert.Equal(t, "Gemini Chat Export", Site{}.Title("Some page", ""))
	assert.Equal(t, "gemini_deep_research", p.RenderFilePrefix)
}

func TestRegistered(t *testing.T) {
	s, ok := site.ForURL("https://gemini.google.com/app/123")
	assert.True(t, ok)
	assert.Equal(t, "gemini", s.Name())
}
