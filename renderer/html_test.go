package renderer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLShowsLoadingMarker(t *testing.T) {
	res := newFakeResolver(nil)
	res.gate = make(chan struct{})
	r := newTestRenderer(t, Config{Resolver: res, LoadingText: "Please wait"})
	s := r.NewSession(context.Background(), SessionOptions{})
	defer s.Close()

	s.Load("![](upload-img-a)")
	out, err := s.HTML()
	require.NoError(t, err)

	assert.Contains(t, out, `class="image-loading"`)
	assert.Contains(t, out, `data-token="upload-img-a"`)
	assert.Contains(t, out, "Please wait")
}

func TestHTMLRendersPlainImages(t *testing.T) {
	r := newTestRenderer(t, Config{Resolver: newFakeResolver(nil)})

	out, err := r.renderHTML(`![a chart](https://cdn.example.com/c.png "Chart")`, nil)
	require.NoError(t, err)

	assert.Contains(t, out, `src="https://cdn.example.com/c.png"`)
	assert.Contains(t, out, `alt="a chart"`)
	assert.Contains(t, out, `title="Chart"`)
}

func TestHTMLSanitizes(t *testing.T) {
	r := newTestRenderer(t, Config{Resolver: newFakeResolver(nil)})

	out, err := r.renderHTML("hello <script>alert(1)</script>\n\n![x](javascript:alert(1))", nil)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "hello")
}

func TestHTMLHighlightsCode(t *testing.T) {
	r := newTestRenderer(t, Config{Resolver: newFakeResolver(nil)})

	out, err := r.renderHTML("```go\nfunc main() {}\n```", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "chroma")
	assert.Contains(t, out, "main")
}

func TestHTMLUnrequestedTokenShowsLoading(t *testing.T) {
	r := newTestRenderer(t, Config{Resolver: newFakeResolver(nil)})

	out, err := r.renderHTML("![](upload-img-q)", func(string) (ImageState, string) {
		return ImageUnrequested, ""
	})
	require.NoError(t, err)
	assert.Contains(t, out, DefaultLoadingText)
}
