// Package resolve turns track IDs into playable stream URLs.
package resolve

import (
	"context"
	"errors"
)

// ErrNoStream is returned when a resolver has no stream for the ID.
var ErrNoStream = errors.New("resolve: no stream for track")

// Resolver returns a playable URL for a track ID.
type Resolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, id string) (string, error)

func (f Func) Resolve(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// Chain tries each resolver in order. ErrNoStream moves on to the next
// one; any other error stops the chain.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, id string) (string, error) {
	for _, r := range c {
		u, err := r.Resolve(ctx, id)
		if errors.Is(err, ErrNoStream) {
			continue
		}
		return u, err
	}
	return "", ErrNoStream
}

// Invalidator is implemented by resolvers that remember results. The
// engine calls it when a resolved URL fails to play.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}
