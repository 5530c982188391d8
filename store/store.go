// Package store persists Markdown documents under slash-separated paths.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound reports that no document exists at a path.
	ErrNotFound = errors.New("markdown not found")
	// ErrInvalidPath reports a path that is empty, absolute, escapes the
	// store root or does not name a .md file.
	ErrInvalidPath = errors.New("invalid markdown path")
)

// PathPrefix is the directory generated paths live in.
const PathPrefix = "usersmarkdown/"

// Store saves and loads Markdown documents.
type Store interface {
	Save(ctx context.Context, path, markdown string) error
	Load(ctx context.Context, path string) (string, error)
}

// NewPath returns a fresh document path derived from now.
func NewPath(now time.Time) string {
	return fmt.Sprintf("%smarkdown-%d.md", PathPrefix, now.UnixMilli())
}

// ValidatePath checks that p is a clean relative path to a .md file.
func ValidatePath(p string) error {
	switch {
	case strings.TrimSpace(p) == "":
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	case strings.HasPrefix(p, "/") || strings.Contains(p, `\`):
		return fmt.Errorf("%w: %q must be relative and slash-separated", ErrInvalidPath, p)
	case path.Clean(p) != p:
		return fmt.Errorf("%w: %q is not clean", ErrInvalidPath, p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("%w: %q escapes the store", ErrInvalidPath, p)
	case path.Ext(p) != ".md":
		return fmt.Errorf("%w: %q is not a .md file", ErrInvalidPath, p)
	}
	return nil
}

// SaveRequest is the body of a save request.
type SaveRequest struct {
	Markdown string `json:"markdown"`
	FilePath string `json:"filePath,omitempty"`
}

// SaveResponse is the body of a save response.
type SaveResponse struct {
	FilePath string `json:"filePath"`
}

// LoadRequest is the body of a load request.
type LoadRequest struct {
	FilePath string `json:"filePath" validate:"required"`
}

// LoadResponse is the body of a load response.
type LoadResponse struct {
	Markdown string `json:"markdown"`
}
