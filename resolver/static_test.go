package resolver

import (
	"context"
	"testing"

	"github.com/rgonek/quill-md-converter/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolve(t *testing.T) {
	r := NewStatic(map[string]string{
		"./upload-img-a": "https://cdn.example.com/a.png",
		"upload-img-b":   "  ",
	})

	url, err := r.Resolve(context.Background(), "/upload-img-a")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", url)

	_, err = r.Resolve(context.Background(), "upload-img-b")
	require.ErrorIs(t, err, renderer.ErrNotFound)

	_, err = r.Resolve(context.Background(), "upload-img-c")
	require.ErrorIs(t, err, renderer.ErrNotFound)
}

func TestStaticResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic(nil).Resolve(ctx, "upload-img-a")
	require.ErrorIs(t, err, context.Canceled)
}
