// Package logo implements the logo resolution stage.
package logo

import (
	"context"
	"fmt"
	"image"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Stage resolves the optional logo layer: the user's logo, then the bundled
// default, then nothing. It never fails.
type Stage struct {
	users       ports.UserDirectory
	guard       ports.URLValidator
	fetcher     ports.ImageFetcher
	renderer    ports.Renderer
	fs          ports.FileSystem
	defaultPath string
	logger      ports.Logger
}

// NewStage creates a new logo stage. users may be nil; an empty
// defaultPath disables the bundled logo.
func NewStage(
	users ports.UserDirectory,
	guard ports.URLValidator,
	fetcher ports.ImageFetcher,
	renderer ports.Renderer,
	fs ports.FileSystem,
	defaultPath string,
	logger ports.Logger,
) *Stage {
	return &Stage{
		users:       users,
		guard:       guard,
		fetcher:     fetcher,
		renderer:    renderer,
		fs:          fs,
		defaultPath: defaultPath,
		logger:      logger.WithComponent("logo"),
	}
}

// Execute returns the logo layer, contain-fit into input.Rect.
func (s *Stage) Execute(ctx context.Context, input pipeline.LogoInput) (pipeline.LogoResult, error) {
	result, ok := pipeline.FirstOf[pipeline.LogoResult](ctx,
		func(ctx context.Context) (pipeline.LogoResult, bool) { return s.user(ctx, input) },
		func(ctx context.Context) (pipeline.LogoResult, bool) { return s.bundled(input) },
	)
	if !ok {
		s.logger.Warn("No logo available, omitting layer")
		return pipeline.LogoResult{Source: pipeline.LogoNone}, nil
	}
	s.logger.Debug("Logo resolved from %s", result.Source)
	return result, nil
}

func (s *Stage) user(ctx context.Context, input pipeline.LogoInput) (pipeline.LogoResult, bool) {
	if s.users == nil || input.UserID == "" {
		return pipeline.LogoResult{}, false
	}

	url, err := s.users.LogoURL(ctx, input.UserID)
	if err != nil {
		s.logger.Warn("Logo lookup for user %s failed: %v", input.UserID, err)
		return pipeline.LogoResult{}, false
	}
	if url == "" {
		return pipeline.LogoResult{}, false
	}
	if !s.guard.IsAllowed(url) {
		s.logger.Warn("Logo URL %s not allowed", url)
		return pipeline.LogoResult{}, false
	}

	// Logos change more often than posters; always fetch fresh.
	buf, err := s.fetcher.Fetch(ctx, url, false)
	if err != nil {
		s.logger.Warn("Logo %s unavailable: %v", url, err)
		return pipeline.LogoResult{}, false
	}
	img, _, err := s.renderer.DecodeImage(buf.Data, ports.FormatPNG)
	if err != nil {
		s.logger.Warn("Logo %s unavailable: %v", url, err)
		return pipeline.LogoResult{}, false
	}
	return s.layer(img, input.Rect, pipeline.LogoUser), true
}

func (s *Stage) bundled(input pipeline.LogoInput) (pipeline.LogoResult, bool) {
	if s.defaultPath == "" {
		return pipeline.LogoResult{}, false
	}
	data, err := s.fs.ReadFile(s.defaultPath)
	if err != nil {
		s.logger.Warn("Default logo %s unavailable: %v", s.defaultPath, err)
		return pipeline.LogoResult{}, false
	}
	img, _, err := s.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		s.logger.Warn("Default logo %s unavailable: %v", s.defaultPath, fmt.Errorf("decode: %w", err))
		return pipeline.LogoResult{}, false
	}
	return s.layer(img, input.Rect, pipeline.LogoDefault), true
}

func (s *Stage) layer(img image.Image, rect pipeline.Rectangle, source pipeline.LogoSource) pipeline.LogoResult {
	fitted := s.renderer.ContainImage(img, rect.Width, rect.Height)
	return pipeline.LogoResult{
		Layer: &pipeline.Layer{
			Name:  "logo",
			Image: fitted,
			Top:   rect.Y,
			Left:  rect.X,
		},
		Source: source,
	}
}
