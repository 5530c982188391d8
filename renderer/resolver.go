package renderer

import (
	"context"
	"errors"
)

// ErrNotFound reports that an upload token has no published image.
var ErrNotFound = errors.New("image not found")

// Resolver maps an upload token to a displayable image URL.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, token string) (string, error)

// Resolve calls f(ctx, token).
func (f ResolverFunc) Resolve(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// Typesetter turns LaTeX into display markup. display is true for block math.
type Typesetter func(latex string, display bool) (string, error)
