package export

import (
	"errors"
	"fmt"

	"chatmd/internal/chat"
	"chatmd/internal/sink"
)

// Describe turns an export error into a message for the person who asked
// for the export.
func Describe(err error, product string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chat.ErrContainerNotFound):
		return fmt.Sprintf("Could not find chat history container. Are you on a %s chat page?", product)
	case errors.Is(err, chat.ErrNoContentFound):
		return fmt.Sprintf("No chat content found. Are you on a %s conversation?", product)
	case errors.Is(err, chat.ErrNothingSelected):
		return "Please select at least one message to export."
	case errors.Is(err, chat.ErrHostContextLost):
		return "The page changed or was closed during export. Export aborted. Keep the tab open and on this conversation until the export finishes."
	case errors.Is(err, sink.ErrClipboardWrite):
		return "Failed to copy to clipboard. Please check permissions."
	}
	return "Export failed: " + err.Error()
}
