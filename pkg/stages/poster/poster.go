// Package poster implements the poster layer stage.
package poster

import (
	"context"
	"fmt"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Stage fetches the poster and fits it into its layout rectangle.
type Stage struct {
	fetcher  ports.ImageFetcher
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new poster stage.
func NewStage(fetcher ports.ImageFetcher, renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		fetcher:  fetcher,
		renderer: renderer,
		logger:   logger.WithComponent("poster"),
	}
}

// Execute returns the poster layer. The poster is mandatory, so every
// failure is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.PosterInput) (pipeline.Layer, error) {
	buf, err := s.fetcher.Fetch(ctx, input.URL, true)
	if err != nil {
		return pipeline.Layer{}, err
	}

	img, _, err := s.renderer.DecodeImage(buf.Data, ports.FormatPNG)
	if err != nil {
		return pipeline.Layer{}, fmt.Errorf("decode poster: %w", err)
	}

	fitted := s.renderer.CoverImage(img, input.Rect.Width, input.Rect.Height)
	s.logger.Debug("Poster %dx%d placed at (%d,%d) as %dx%d",
		buf.Width, buf.Height, input.Rect.X, input.Rect.Y, input.Rect.Width, input.Rect.Height)

	return pipeline.Layer{
		Name:  "poster",
		Image: fitted,
		Top:   input.Rect.Y,
		Left:  input.Rect.X,
	}, nil
}
