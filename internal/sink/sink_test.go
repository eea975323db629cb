package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliver_File(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	path, err := s.Deliver(context.Background(), ModeFile, "chat.md", "# Title\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "chat.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file left behind")
}

func TestDeliver_FileFailureReleasesTemp(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.md"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taken.md", "x"), []byte("x"), 0644))

	_, err := New(dir).Deliver(context.Background(), ModeFile, "taken.md", "content")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "taken.md", entries[0].Name())
}

func TestDeliver_Clipboard(t *testing.T) {
	var got string
	s := New(t.TempDir())
	s.writeClipboard = func(text string) error {
		got = text
		return nil
	}

	path, err := s.Deliver(context.Background(), ModeClipboard, "ignored.md", "exported")
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, "exported", got)
}

func TestDeliver_ClipboardFailure(t *testing.T) {
	s := New(t.TempDir())
	s.writeClipboard = func(string) error { return errors.New("no xclip") }

	_, err := s.Deliver(context.Background(), ModeClipboard, "", "x")

	assert.ErrorIs(t, err, ErrClipboardWrite)
}

func TestDeliver_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(dir).Deliver(ctx, ModeFile, "a.md", "x")

	assert.ErrorIs(t, err, context.Canceled)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("clipboard")
	require.NoError(t, err)
	assert.Equal(t, ModeClipboard, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFile, m)

	_, err = ParseMode("printer")
	assert.Error(t, err)
}
