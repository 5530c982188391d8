package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rgonek/quill-md-converter/renderer"
)

// PublicURLPath is the endpoint that exchanges a stored file path for signed
// download URLs.
const PublicURLPath = "/api/get-public-url"

const defaultHTTPTimeout = 10 * time.Second

// PublicURLRequest is the body of a public URL request.
type PublicURLRequest struct {
	FilePath string `json:"filePath" validate:"required"`
}

// PublicURLResponse is the body of a public URL response.
type PublicURLResponse struct {
	SignedURLs []string `json:"signedUrls"`
}

// HTTP resolves tokens through a remote public URL endpoint.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// HTTPOption configures an HTTP resolver.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// NewHTTP returns a resolver calling baseURL + PublicURLPath.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		endpoint: strings.TrimRight(baseURL, "/") + PublicURLPath,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolve implements renderer.Resolver. The first signed URL is returned.
func (h *HTTP) Resolve(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(PublicURLRequest{FilePath: token})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request public url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", renderer.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("public url endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out PublicURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.SignedURLs) == 0 || strings.TrimSpace(out.SignedURLs[0]) == "" {
		return "", renderer.ErrNotFound
	}
	return out.SignedURLs[0], nil
}
