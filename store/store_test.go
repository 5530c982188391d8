package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	p := NewPath(now)

	assert.Equal(t, "usersmarkdown/markdown-1700000000123.md", p)
	require.NoError(t, ValidatePath(p))
}

func TestValidatePath(t *testing.T) {
	valid := []string{"a.md", "usersmarkdown/markdown-1.md", "x/y/z.md"}
	for _, p := range valid {
		assert.NoError(t, ValidatePath(p), p)
	}

	invalid := []string{"", "  ", "/abs.md", "../up.md", "a/../../b.md", "a//b.md", "./a.md", "a.txt", `a\b.md`, "dir/"}
	for _, p := range invalid {
		assert.ErrorIs(t, ValidatePath(p), ErrInvalidPath, p)
	}
}
