// Package renderer turns Markdown with embedded LaTeX and uploaded image
// references back into a displayable document.
//
// Each Session tracks one source at a time. Upload tokens found in the source
// are resolved asynchronously, once per token per source version.
package renderer

import (
	"context"
	"fmt"

	"github.com/rgonek/quill-md-converter/document"
	"go.uber.org/zap"
)

// Renderer creates sessions sharing one resolver and one Markdown pipeline.
type Renderer struct {
	config Config
	log    *zap.Logger
}

// Rendered is a fully resolved rendering of a Markdown source.
type Rendered struct {
	Segments []DisplaySegment `json:"segments"`
	HTML     string           `json:"html"`
}

// New creates a Renderer.
func New(cfg Config) (*Renderer, error) {
	cfg = cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Renderer{
		config: cfg,
		log:    cfg.Logger.Named("renderer"),
	}, nil
}

// Segment splits markdown into text, inline math and block math segments.
func (r *Renderer) Segment(markdown string) document.Document {
	return document.SplitMath(markdown)
}

// Render loads markdown into a throwaway session, waits for every image to
// settle and returns the final view.
func (r *Renderer) Render(ctx context.Context, markdown string) (Rendered, error) {
	s := r.NewSession(ctx, SessionOptions{})
	defer s.Close()

	s.Load(markdown)
	if err := s.Wait(ctx); err != nil {
		return Rendered{}, err
	}

	html, err := s.HTML()
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Segments: s.Segments(), HTML: html}, nil
}

func (r *Renderer) typeset(seg document.Segment) string {
	if r.config.Typesetter == nil || !seg.IsMath() {
		return ""
	}
	out, err := r.config.Typesetter(seg.Math, seg.Kind == document.KindBlockMath)
	if err != nil {
		r.log.Debug("typesetting failed, keeping raw latex",
			zap.String("latex", seg.Math),
			zap.Error(err),
		)
		return ""
	}
	return out
}
