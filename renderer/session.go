package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rgonek/quill-md-converter/document"
	"go.uber.org/zap"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	// OnUpdate is called, outside the session lock, each time a token of the
	// current source reaches a terminal state.
	OnUpdate func(Update)
}

// Session holds the display state of one Markdown source at a time.
type Session struct {
	r    *Renderer
	opts SessionOptions
	ctx  context.Context

	mu      sync.Mutex
	loaded  bool
	closed  bool
	source  string
	doc     document.Document
	typeset []string
	version uint64
	cache   map[string]entry
	batch   *batch
}

// batch tracks the resolutions started for one source version.
type batch struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	err    error
}

// NewSession creates a session. Resolutions are cancelled when ctx is done or
// the session is closed.
func (r *Renderer) NewSession(ctx context.Context, opts SessionOptions) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{
		r:     r,
		opts:  opts,
		ctx:   ctx,
		cache: make(map[string]entry),
	}
}

// Load replaces the session source and returns its segments immediately.
// Upload placeholders start in the loading state and one resolution is started
// per distinct token. Loading the current source again changes nothing.
func (s *Session) Load(markdown string) []DisplaySegment {
	doc := document.Parse(markdown)
	typeset := make([]string, len(doc.Segments))
	for i, seg := range doc.Segments {
		typeset[i] = s.r.typeset(seg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.source == markdown {
		return s.displayLocked()
	}

	if s.batch != nil {
		s.batch.cancel()
	}
	s.version++
	s.loaded = true
	s.source = markdown
	s.doc = doc
	s.typeset = typeset
	s.cache = make(map[string]entry)
	s.batch = nil

	if s.closed {
		return s.displayLocked()
	}

	ctx, cancel := context.WithCancel(s.ctx)
	b := &batch{ctx: ctx, cancel: cancel}
	s.batch = b

	tokens := doc.UploadTokens()
	s.r.log.Debug("loaded source",
		zap.Uint64("version", s.version),
		zap.Int("segments", len(doc.Segments)),
		zap.Int("tokens", len(tokens)),
	)
	for _, token := range tokens {
		s.cache[token] = entry{state: ImageRequested}
		b.wg.Add(1)
		go s.resolve(b, s.version, token)
	}

	return s.displayLocked()
}

func (s *Session) resolve(b *batch, version uint64, token string) {
	defer b.wg.Done()

	url, err := s.callResolver(b.ctx, token)
	url = strings.TrimSpace(url)

	next := entry{state: ImageResolved, url: url}
	if err == nil && url == "" {
		err = ErrNotFound
	}
	if err != nil {
		next = entry{state: ImageNotFound}
	}

	s.mu.Lock()
	if s.closed || version != s.version || b.ctx.Err() != nil {
		s.mu.Unlock()
		s.r.log.Debug("discarding superseded resolution",
			zap.String("token", token),
			zap.Uint64("version", version),
		)
		return
	}
	if s.cache[token].state != ImageRequested {
		s.mu.Unlock()
		return
	}
	s.cache[token] = next
	if err != nil && s.r.config.ResolutionMode == ResolutionStrict && b.err == nil {
		b.err = fmt.Errorf("unresolved image reference %q: %w", token, err)
	}
	onUpdate := s.opts.OnUpdate
	s.mu.Unlock()

	switch {
	case err == nil:
		s.r.log.Debug("image resolved", zap.String("token", token))
	case errors.Is(err, ErrNotFound):
		s.r.log.Debug("image not found", zap.String("token", token))
	default:
		s.r.log.Warn("image resolution failed", zap.String("token", token), zap.Error(err))
	}

	if onUpdate != nil {
		onUpdate(Update{Token: token, State: next.state, URL: next.url, Version: version})
	}
}

// callResolver runs the resolver, turning a panic into an error so that only
// token is affected.
func (s *Session) callResolver(ctx context.Context, token string) (url string, err error) {
	defer func() {
		if r := recover(); r != nil {
			url, err = "", fmt.Errorf("resolver panic: %v", r)
		}
	}()
	return s.r.config.Resolver.Resolve(ctx, token)
}

// Segments returns a snapshot of the current display state.
func (s *Session) Segments() []DisplaySegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayLocked()
}

// State returns the resolution state of token for the current source.
func (s *Session) State(token string) (ImageState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(document.NormalizeImageTarget(token))
}

// Version returns the current source version. It starts at zero and is
// incremented by every Load of a different source.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Wait blocks until every resolution of the current source has finished or
// ctx is done. In strict mode it returns the first resolution failure.
func (s *Session) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	b := s.batch
	s.mu.Unlock()
	if b == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b != s.batch {
		return nil
	}
	return b.err
}

// Close cancels outstanding resolutions. Later loads start none.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.batch != nil {
		s.batch.cancel()
	}
}

// HTML renders the current source with images reflecting their current state.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	source := s.source
	states := make(map[string]entry, len(s.cache))
	for k, v := range s.cache {
		states[k] = v
	}
	s.mu.Unlock()

	return s.r.renderHTML(source, func(token string) (ImageState, string) {
		e, ok := states[token]
		if !ok {
			return ImageUnrequested, ""
		}
		return e.state, e.url
	})
}

func (s *Session) lookupLocked(token string) (ImageState, string) {
	e, ok := s.cache[token]
	if !ok {
		return ImageUnrequested, ""
	}
	return e.state, e.url
}

func (s *Session) displayLocked() []DisplaySegment {
	out := make([]DisplaySegment, 0, len(s.doc.Segments))
	for i, seg := range s.doc.Segments {
		ds := DisplaySegment{Segment: seg}
		if i < len(s.typeset) {
			ds.Typeset = s.typeset[i]
		}
		switch seg.Kind {
		case document.KindImage:
			ds.State = ImageResolved
			ds.URL = seg.Target
		case document.KindImagePlaceholder:
			ds.State, ds.URL = s.lookupLocked(seg.Token)
			switch ds.State {
			case ImageNotFound:
				ds.Label = s.r.config.NotFoundText
			case ImageUnrequested, ImageRequested:
				ds.Label = s.r.config.LoadingText
			}
		}
		out = append(out, ds)
	}
	return out
}
