package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	SavePath = "/api/save-markdown"
	LoadPath = "/api/get-markdown"
)

// HTTP stores documents through a remote service exposing SavePath and
// LoadPath.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP returns a store talking to baseURL. A nil client gets a default
// with a 10 second timeout.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Save implements Store.
func (h *HTTP) Save(ctx context.Context, p, markdown string) error {
	if err := ValidatePath(p); err != nil {
		return err
	}
	var out SaveResponse
	return h.post(ctx, SavePath, SaveRequest{Markdown: markdown, FilePath: p}, &out)
}

// Load implements Store.
func (h *HTTP) Load(ctx context.Context, p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", err
	}
	var out LoadResponse
	if err := h.post(ctx, LoadPath, LoadRequest{FilePath: p}, &out); err != nil {
		return "", err
	}
	return out.Markdown, nil
}

func (h *HTTP) post(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: rejected by server", ErrInvalidPath)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
