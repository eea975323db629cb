// Package chat holds the conversation data model shared by every stage of an
// export: roles, extracted messages, failure reasons and the final document.
package chat

import (
	"errors"
	"fmt"
)

// Role identifies who authored a message.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// ParseRole accepts "user"/"u" and "assistant"/"ai"/"a".
func ParseRole(s string) (Role, error) {
	switch s {
	case "user", "u":
		return User, nil
	case "assistant", "ai", "a":
		return Assistant, nil
	}
	return "", fmt.Errorf("unknown role: %s", s)
}

// Fatal errors. Any of these aborts the export before anything is delivered.
var (
	ErrContainerNotFound = errors.New("chat container not found")
	ErrNoContentFound    = errors.New("no chat content found")
	ErrNothingSelected   = errors.New("no messages selected")
	ErrHostContextLost   = errors.New("page context lost")
)

// Reason describes why a single message could not be extracted.
// The empty Reason means success.
type Reason string

const (
	ReasonMissing            Reason = "missing"
	ReasonEmpty              Reason = "empty"
	ReasonMissingCopyControl Reason = "missing-copy-control"
	ReasonClipboardDenied    Reason = "clipboard-denied"
	ReasonEmptyClipboard     Reason = "empty-clipboard"
)

// Message is the extracted text of one role within one turn.
type Message struct {
	Role  Role
	Index int // 0-based turn index

	Text   string
	Reason Reason
	// Fallback is set when Text came from a lower-fidelity source after the
	// primary path failed with Reason.
	Fallback bool
}

// OK reports whether the message was extracted by the primary path.
func (m Message) OK() bool {
	return m.Reason == ""
}

// Body returns the Markdown emitted for the message: the text itself, a note
// followed by fallback text, or a placeholder.
func (m Message) Body() string {
	switch {
	case m.OK():
		return m.Text
	case m.Fallback:
		return fallbackNote(m.Reason, m.Index) + "\n\n" + m.Text
	default:
		return Placeholder(m.Role, m.Reason, m.Index)
	}
}

// Placeholder is the note written in place of a message that could not be
// extracted. Positions are shown 1-based.
func Placeholder(role Role, reason Reason, index int) string {
	n := index + 1
	switch {
	case role == User && reason == ReasonMissing:
		return fmt.Sprintf("[Note: User query not found in message %d.]", n)
	case role == User:
		return fmt.Sprintf("[Note: Could not copy user query. Please manually copy and paste this query from message %d.]", n)
	case reason == ReasonMissing:
		return fmt.Sprintf("[Note: Model response not found in message %d.]", n)
	case reason == ReasonMissingCopyControl:
		return fmt.Sprintf("[Note: Copy button not found for message %d. Please check the chat UI.]", n)
	case reason == ReasonClipboardDenied:
		return fmt.Sprintf("[Note: Could not read clipboard for message %d. Please check permissions.]", n)
	default:
		return fmt.Sprintf("[Note: Could not copy model response. Please manually copy and paste this response from message %d.]", n)
	}
}

func fallbackNote(reason Reason, index int) string {
	var what string
	switch reason {
	case ReasonMissingCopyControl:
		what = "Copy button not found"
	case ReasonClipboardDenied:
		what = "Could not read clipboard"
	default:
		what = "Clipboard stayed empty"
	}
	return fmt.Sprintf("[Note: %s for message %d. Used page text fallback.]", what, index+1)
}
