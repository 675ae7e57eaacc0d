// Package backdropchain queries several backdrop providers in order.
package backdropchain

import (
	"context"
	"errors"

	"github.com/user/orionbanner/pkg/ports"
)

// Chain implements ports.BackdropProvider by returning the first non-empty
// result of its providers.
type Chain struct {
	providers []ports.BackdropProvider
}

// New creates a Chain. Nil providers are skipped.
func New(providers ...ports.BackdropProvider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Len returns the number of configured providers.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Backdrops returns the first non-empty list. When every provider fails
// the errors are joined; when some succeed empty, the result is empty.
func (c *Chain) Backdrops(ctx context.Context, id int64, mediaType string) ([]string, error) {
	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		urls, err := p.Backdrops(ctx, id, mediaType)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}
	if len(errs) == len(c.providers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

// Ensure Chain implements ports.BackdropProvider
var _ ports.BackdropProvider = (*Chain)(nil)
