// Package background implements the background resolution stage.
package background

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// FlatColor fills the canvas when no backdrop can be resolved.
var FlatColor = color.RGBA{R: 0x0b, G: 0x0b, B: 0x12, A: 0xff}

// MaxCandidates bounds how many looked-up backdrops are tried.
const MaxCandidates = 3

// Backgrounds resolves the theme background asset for a colour key.
type Backgrounds interface {
	Background(key string) (string, bool)
}

// Stage produces the canvas-sized background layer.
type Stage struct {
	fetcher     ports.ImageFetcher
	renderer    ports.Renderer
	guard       ports.URLValidator
	backdrops   ports.BackdropProvider
	backgrounds Backgrounds
	logger      ports.Logger
}

// NewStage creates a new background stage. backdrops may be nil when no
// metadata provider is configured.
func NewStage(
	fetcher ports.ImageFetcher,
	renderer ports.Renderer,
	guard ports.URLValidator,
	backdrops ports.BackdropProvider,
	backgrounds Backgrounds,
	logger ports.Logger,
) *Stage {
	return &Stage{
		fetcher:     fetcher,
		renderer:    renderer,
		guard:       guard,
		backdrops:   backdrops,
		backgrounds: backgrounds,
		logger:      logger.WithComponent("background"),
	}
}

// Execute resolves the background.
//
// Exclusive model: explicit backdrop, then metadata lookup, then a flat
// colour; failures degrade with a warning. Default model: the theme asset,
// whose failure is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, error) {
	if !input.Request.ModelType.IsExclusive() {
		return s.theme(ctx, input)
	}

	result, _ := pipeline.FirstOf[pipeline.BackgroundResult](ctx,
		func(ctx context.Context) (pipeline.BackgroundResult, bool) { return s.explicit(ctx, input) },
		func(ctx context.Context) (pipeline.BackgroundResult, bool) { return s.lookup(ctx, input) },
		func(ctx context.Context) (pipeline.BackgroundResult, bool) { return s.flat(input), true },
	)
	if result.Layer.Image == nil {
		// Context cancelled before any attempt ran.
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result = s.flat(input)
	}
	s.logger.Debug("Background resolved from %s", result.Source)
	return result, nil
}

func (s *Stage) theme(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, error) {
	url, ok := s.backgrounds.Background(input.Request.ColorKey)
	if !ok {
		return pipeline.BackgroundResult{}, fmt.Errorf("no background for colour %q", input.Request.ColorKey)
	}
	img, err := s.load(ctx, url, input.Canvas)
	if err != nil {
		return pipeline.BackgroundResult{}, fmt.Errorf("theme background: %w", err)
	}
	return layer(img, pipeline.BackgroundTheme), nil
}

func (s *Stage) explicit(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, bool) {
	url := input.Request.BackdropURL
	if url == "" {
		return pipeline.BackgroundResult{}, false
	}
	img, err := s.load(ctx, url, input.Canvas)
	if err != nil {
		s.logger.Warn("Backdrop %s unavailable: %v", url, err)
		return pipeline.BackgroundResult{}, false
	}
	return layer(img, pipeline.BackgroundBackdrop), true
}

func (s *Stage) lookup(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, bool) {
	req := input.Request
	if s.backdrops == nil || req.TMDBID <= 0 {
		return pipeline.BackgroundResult{}, false
	}

	urls, err := s.backdrops.Backdrops(ctx, req.TMDBID, req.TMDBType)
	if err != nil {
		s.logger.Warn("Backdrop lookup for %s %d failed: %v", req.TMDBType, req.TMDBID, err)
		return pipeline.BackgroundResult{}, false
	}

	tried := 0
	for _, url := range urls {
		if tried == MaxCandidates {
			break
		}
		if !s.guard.IsAllowed(url) {
			continue
		}
		tried++
		img, err := s.load(ctx, url, input.Canvas)
		if err != nil {
			s.logger.Warn("Backdrop %s unavailable: %v", url, err)
			continue
		}
		return layer(img, pipeline.BackgroundMetadata), true
	}
	if tried == 0 {
		s.logger.Warn("No usable backdrop for %s %d", req.TMDBType, req.TMDBID)
	}
	return pipeline.BackgroundResult{}, false
}

func (s *Stage) flat(input pipeline.BackgroundInput) pipeline.BackgroundResult {
	s.logger.Warn("Using flat background")
	canvas := s.renderer.CreateCanvas(input.Canvas.Width, input.Canvas.Height, FlatColor)
	return layer(canvas.ToImage(), pipeline.BackgroundFlat)
}

func (s *Stage) load(ctx context.Context, url string, size pipeline.Dimension) (image.Image, error) {
	buf, err := s.fetcher.Fetch(ctx, url, true)
	if err != nil {
		return nil, err
	}
	img, _, err := s.renderer.DecodeImage(buf.Data, ports.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return s.renderer.CoverImage(img, size.Width, size.Height), nil
}

func layer(img image.Image, source pipeline.BackgroundSource) pipeline.BackgroundResult {
	return pipeline.BackgroundResult{
		Layer:  pipeline.Layer{Name: "background", Image: img},
		Source: source,
	}
}
