// Package sink delivers a finished export.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// Mode selects the destination of an export.
type Mode string

const (
	ModeFile      Mode = "file"
	ModeClipboard Mode = "clipboard"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFile, "":
		return ModeFile, nil
	case ModeClipboard:
		return ModeClipboard, nil
	}
	return "", fmt.Errorf("unsupported export mode: %s", s)
}

// ErrClipboardWrite is returned when the system clipboard rejects the text.
var ErrClipboardWrite = errors.New("failed to write to clipboard")

// Sink writes documents to a directory or the system clipboard.
type Sink struct {
	Dir string

	writeClipboard func(string) error
}

// New returns a sink writing files into dir.
func New(dir string) *Sink {
	return &Sink{Dir: dir, writeClipboard: clipboard.WriteAll}
}

// Deliver sends content to mode's destination. For files it returns the path written.
func (s *Sink) Deliver(ctx context.Context, mode Mode, filename, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch mode {
	case ModeClipboard:
		if err := s.writeClipboard(content); err != nil {
			return "", fmt.Errorf("%w: %v", ErrClipboardWrite, err)
		}
		return "", nil
	case ModeFile, "":
		return s.writeFile(filename, content)
	}
	return "", fmt.Errorf("unsupported export mode: %s", mode)
}

// writeFile writes through a temporary file in the target directory. The
// temporary file is removed on every path that does not rename it into place.
func (s *Sink) writeFile(filename, content string) (path string, err error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".chatmd-*.md.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write to file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write to file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	path = filepath.Join(dir, filename)
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return path, nil
}
