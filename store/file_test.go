package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewFile(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "usersmarkdown/markdown-1.md", "# One\n"))
	require.NoError(t, s.Save(ctx, "usersmarkdown/markdown-1.md", "# Two\n"))

	got, err := s.Load(ctx, "usersmarkdown/markdown-1.md")
	require.NoError(t, err)
	assert.Equal(t, "# Two\n", got)

	entries, err := os.ReadDir(filepath.Join(dir, "usersmarkdown"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileLoadMissing(t *testing.T) {
	s := NewFile(t.TempDir())
	_, err := s.Load(context.Background(), "nope.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileRejectsInvalidPaths(t *testing.T) {
	s := NewFile(t.TempDir())
	ctx := context.Background()

	require.ErrorIs(t, s.Save(ctx, "../escape.md", "x"), ErrInvalidPath)
	_, err := s.Load(ctx, "/etc/passwd")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestFileHonoursContext(t *testing.T) {
	s := NewFile(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Save(ctx, "a.md", "x"), context.Canceled)
}
