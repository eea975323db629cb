package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatmd/internal/chat"
	"chatmd/internal/site"
)

var testSelectors = site.Selectors{
	Turns:        []string{"div.turn", "[data-turn]"},
	FallbackRoot: "report-panel",
	User:         "user-query",
	Assistant:    "model-response",
	Copy:         []site.Control{{Selector: "button.copy"}},
}

func TestFindTurns_PrimarySelector(t *testing.T) {
	page := newPage()
	page.with("div.turn",
		el().with("user-query", el()).with("model-response", el()),
		el().with("model-response", el()),
	)
	page.with("[data-turn]", el())

	turns, err := NewLocator(testSelectors).FindTurns(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, turns, 2)
	assert.Equal(t, 0, turns[0].Index)
	assert.True(t, turns[0].HasUser)
	assert.True(t, turns[0].HasAssistant)
	assert.False(t, turns[1].HasUser)
	assert.Equal(t, 1, turns[1].Index)
}

func TestFindTurns_AlternateSelector(t *testing.T) {
	page := newPage()
	page.with("[data-turn]", el(), el(), el())

	turns, err := NewLocator(testSelectors).FindTurns(context.Background(), page)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}

func TestFindTurns_FallbackRoot(t *testing.T) {
	panel := el()
	page := newPage()
	page.with("report-panel", panel)

	turns, err := NewLocator(testSelectors).FindTurns(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, turns, 1)
	assert.Same(t, panel, turns[0].Element)
}

func TestFindTurns_ScopeIsFallbackRoot(t *testing.T) {
	panel := el()
	panel.matches = []string{"report-panel"}

	turns, err := NewLocator(testSelectors).FindTurns(context.Background(), panel)
	require.NoError(t, err)

	require.Len(t, turns, 1)
	assert.Same(t, panel, turns[0].Element)
}

func TestFindTurns_SkipsTurns(t *testing.T) {
	sel := testSelectors
	sel.SkipTurn = "thought-chunk"
	page := newPage()
	page.with("div.turn",
		el().with("user-query", el()),
		el().with("thought-chunk", el()),
		el().with("model-response", el()),
	)

	turns, err := NewLocator(sel).FindTurns(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, turns, 2)
	assert.True(t, turns[0].HasUser)
	assert.True(t, turns[1].HasAssistant)
	assert.Equal(t, 1, turns[1].Index)
}

func TestFindTurns_TurnIsTheMessage(t *testing.T) {
	msg := el()
	msg.matches = []string{"user-query"}
	page := newPage()
	page.with("div.turn", msg)

	turns, err := NewLocator(testSelectors).FindTurns(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, turns[0].HasUser)
}

func TestFindTurns_NoContent(t *testing.T) {
	_, err := NewLocator(testSelectors).FindTurns(context.Background(), newPage())

	assert.ErrorIs(t, err, chat.ErrNoContentFound)
}
