package renderer

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ResolutionMode controls how failed image resolutions are reported.
type ResolutionMode string

const (
	// ResolutionBestEffort marks failed images as not found and carries on.
	ResolutionBestEffort ResolutionMode = "best_effort"
	// ResolutionStrict additionally makes Session.Wait return the first failure.
	ResolutionStrict ResolutionMode = "strict"
)

const (
	DefaultLoadingText  = "Loading image..."
	DefaultNotFoundText = "Image not found"
)

// Config holds renderer configuration.
type Config struct {
	Resolver       Resolver
	Typesetter     Typesetter
	Logger         *zap.Logger
	ResolutionMode ResolutionMode
	LoadingText    string
	NotFoundText   string
	// HighlightStyle names a chroma style. When empty, code blocks carry CSS
	// classes instead of inline styles.
	HighlightStyle string
}

func (c Config) applyDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.ResolutionMode == "" {
		c.ResolutionMode = ResolutionBestEffort
	}
	if c.LoadingText == "" {
		c.LoadingText = DefaultLoadingText
	}
	if c.NotFoundText == "" {
		c.NotFoundText = DefaultNotFoundText
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.Resolver == nil {
		return errors.New("resolver is required")
	}
	if c.ResolutionMode != ResolutionBestEffort && c.ResolutionMode != ResolutionStrict {
		return fmt.Errorf("invalid resolutionMode %q", c.ResolutionMode)
	}
	if strings.TrimSpace(c.LoadingText) == "" || strings.TrimSpace(c.NotFoundText) == "" {
		return errors.New("loading and not-found texts must be non-empty")
	}
	return nil
}
