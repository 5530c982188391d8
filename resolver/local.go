package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgonek/quill-md-converter/document"
	"github.com/rgonek/quill-md-converter/renderer"
)

// AssetsPath is the URL prefix under which local uploads are served.
const AssetsPath = "/assets/"

// Local resolves upload tokens to signed URLs for files kept in a directory.
// A token matches a file named after it, with or without an extension.
type Local struct {
	dir     string
	baseURL string
	signer  *Signer
}

// NewLocal returns a resolver for uploads stored in dir. URLs are built from
// baseURL and AssetsPath.
func NewLocal(dir, baseURL string, signer *Signer) *Local {
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  signer,
	}
}

// Resolve implements renderer.Resolver.
func (l *Local) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token = document.NormalizeImageTarget(token)
	if _, err := l.Path(token); err != nil {
		return "", err
	}

	sig, err := l.signer.Sign(token)
	if err != nil {
		return "", err
	}
	return l.baseURL + AssetsPath + url.PathEscape(token) + "?sig=" + url.QueryEscape(sig), nil
}

// Path returns the file backing token.
func (l *Local) Path(token string) (string, error) {
	if !document.IsUploadToken(token) || strings.ContainsAny(token, `/\*?[`) || strings.Contains(token, "..") {
		return "", fmt.Errorf("%w: invalid token %q", renderer.ErrNotFound, token)
	}

	exact := filepath.Join(l.dir, token)
	if info, err := os.Stat(exact); err == nil && info.Mode().IsRegular() {
		return exact, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat asset: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(l.dir, token+".*"))
	if err != nil {
		return "", fmt.Errorf("find asset: %w", err)
	}
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			return m, nil
		}
	}
	return "", renderer.ErrNotFound
}

// Verify checks a signature issued by Resolve for token.
func (l *Local) Verify(token, sig string) error {
	return l.signer.Verify(sig, token)
}
