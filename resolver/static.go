// Package resolver provides image resolvers for the renderer: a fixed map,
// a client for the public URL signing endpoint, a TTL cache, and signed URLs
// for uploads stored on local disk.
package resolver

import (
	"context"
	"strings"

	"github.com/rgonek/quill-md-converter/document"
	"github.com/rgonek/quill-md-converter/renderer"
)

// Static resolves tokens from a fixed map.
type Static struct {
	urls map[string]string
}

// NewStatic returns a resolver serving a copy of urls.
func NewStatic(urls map[string]string) *Static {
	copied := make(map[string]string, len(urls))
	for token, url := range urls {
		copied[document.NormalizeImageTarget(token)] = url
	}
	return &Static{urls: copied}
}

// Resolve implements renderer.Resolver.
func (s *Static) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url := strings.TrimSpace(s.urls[document.NormalizeImageTarget(token)])
	if url == "" {
		return "", renderer.ErrNotFound
	}
	return url, nil
}
