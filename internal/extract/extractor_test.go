package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatmd/internal/chat"
	"chatmd/internal/config"
	"chatmd/internal/site"
)

var testTiming = config.Timing{UserAttempts: 3, CopyAttempts: 4}

func newExtractor(sel site.Selectors) *Extractor {
	return NewExtractor(sel, testTiming)
}

// assistantTurn builds a turn with a model response and, optionally, a copy
// button whose click runs onClick.
func assistantTurn(response *fakeElement, onClick func()) (Turn, *fakeElement) {
	turn := el().with("model-response", response)
	var btn *fakeElement
	if onClick != nil {
		btn = el()
		btn.onClick = onClick
		turn.with("button.copy", btn)
	}
	return Turn{Element: turn, HasAssistant: true}, btn
}

func TestUser(t *testing.T) {
	q := el()
	q.text = "  Hello \n"
	turn := Turn{Index: 2, Element: el().with("user-query", q)}

	msg, err := newExtractor(testSelectors).User(context.Background(), turn)
	require.NoError(t, err)

	assert.True(t, msg.OK())
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, chat.User, msg.Role)
	assert.Equal(t, 2, msg.Index)
}

func TestUser_RetriesUntilText(t *testing.T) {
	q := el()
	q.texts = []string{"", " ", "late"}
	turn := Turn{Element: el().with("user-query", q)}

	msg, err := newExtractor(testSelectors).User(context.Background(), turn)
	require.NoError(t, err)
	assert.Equal(t, "late", msg.Text)
}

func TestUser_EmptyAfterRetries(t *testing.T) {
	q := el()
	q.texts = []string{"", "", "", "too late"}
	turn := Turn{Element: el().with("user-query", q)}

	msg, err := newExtractor(testSelectors).User(context.Background(), turn)
	require.NoError(t, err)
	assert.Equal(t, chat.ReasonEmpty, msg.Reason)
}

func TestUser_Missing(t *testing.T) {
	msg, err := newExtractor(testSelectors).User(context.Background(), Turn{Element: el()})
	require.NoError(t, err)
	assert.Equal(t, chat.ReasonMissing, msg.Reason)
}

func TestAssistant_Clipboard(t *testing.T) {
	page := newPage()
	turn, btn := assistantTurn(el(), func() { page.clipboard = "Hi! [cite: 1]\n\n\n\nBye" })

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.True(t, msg.OK())
	assert.Equal(t, "Hi! \n\nBye", msg.Text)
	assert.Equal(t, 1, btn.clicks)
}

func TestAssistant_RetriesCopy(t *testing.T) {
	page := newPage()
	var btn *fakeElement
	turn, btn := assistantTurn(el(), func() {
		if btn.clicks == 3 {
			page.clipboard = "third time"
		}
	})

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.Equal(t, "third time", msg.Text)
	assert.Equal(t, 3, btn.clicks)
}

func TestAssistant_MissingCopyControlFallsBack(t *testing.T) {
	response := el()
	response.html = "<div><p>Hello <strong>world</strong></p><button>Copy</button></div>"
	page := newPage()
	turn, _ := assistantTurn(response, nil)

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.Equal(t, chat.ReasonMissingCopyControl, msg.Reason)
	assert.True(t, msg.Fallback)
	assert.Equal(t, "Hello **world**", msg.Text)
	assert.Contains(t, msg.Body(), "Copy button not found")
	assert.Equal(t, testTiming.CopyAttempts, response.hovers)
}

func TestAssistant_MissingCopyControlNoText(t *testing.T) {
	page := newPage()
	turn, _ := assistantTurn(el(), nil)

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.False(t, msg.Fallback)
	assert.Equal(t, "[Note: Copy button not found for message 1. Please check the chat UI.]", msg.Body())
}

func TestAssistant_ClipboardDenied(t *testing.T) {
	page := newPage()
	page.readErr = errDenied
	turn, btn := assistantTurn(el(), func() {})

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.Equal(t, chat.ReasonClipboardDenied, msg.Reason)
	assert.Equal(t, 1, btn.clicks, "a denied read is not retried")
}

func TestAssistant_EmptyClipboard(t *testing.T) {
	response := el()
	response.text = "visible text"
	page := newPage()
	turn, btn := assistantTurn(response, func() {})

	msg, err := newExtractor(testSelectors).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.Equal(t, chat.ReasonEmptyClipboard, msg.Reason)
	assert.True(t, msg.Fallback)
	assert.Equal(t, "visible text", msg.Text)
	assert.Equal(t, testTiming.CopyAttempts, btn.clicks)
}

func TestAssistant_Missing(t *testing.T) {
	msg, err := newExtractor(testSelectors).Assistant(context.Background(), newPage(), Turn{Element: el()})
	require.NoError(t, err)
	assert.Equal(t, chat.ReasonMissing, msg.Reason)
}

func TestAssistant_GlobalMenuChain(t *testing.T) {
	sel := testSelectors
	sel.Copy = []site.Control{
		{Selector: "button.options"},
		{Selector: "button", Text: "copy markdown", Global: true},
	}
	page := newPage()

	share := el()
	share.text = "Share"
	copyMd := el()
	copyMd.text = " Copy Markdown "
	copyMd.onClick = func() { page.clipboard = "**menu copy**" }
	page.with("button", share, copyMd)

	options := el()
	turn := Turn{Element: el().with("model-response", el()).with("button.options", options)}

	msg, err := newExtractor(sel).Assistant(context.Background(), page, turn)
	require.NoError(t, err)

	assert.Equal(t, "**menu copy**", msg.Text)
	assert.Equal(t, 1, options.clicks)
	assert.Equal(t, 0, share.clicks)
}

func TestAssistant_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := newPage()
	turn, _ := assistantTurn(el(), func() {})

	_, err := newExtractor(testSelectors).Assistant(ctx, page, turn)

	assert.ErrorIs(t, err, context.Canceled)
}
