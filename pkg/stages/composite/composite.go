// Package composite implements the banner composition stage.
package composite

import (
	"context"
	"fmt"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Stage flattens the layers onto one canvas and encodes it as PNG.
type Stage struct {
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new composite stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		sink:     sink,
		logger:   logger.WithComponent("composite"),
	}
}

// Execute draws, from bottom to top: background, gradient, poster, text, logo.
func (s *Stage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.CompositeResult{}, err
	}
	if input.Canvas.Width <= 0 || input.Canvas.Height <= 0 {
		return pipeline.CompositeResult{}, fmt.Errorf("invalid canvas %dx%d", input.Canvas.Width, input.Canvas.Height)
	}
	if input.Background.Image == nil {
		return pipeline.CompositeResult{}, fmt.Errorf("missing background layer")
	}

	w, h := input.Canvas.Width, input.Canvas.Height
	s.logger.Debug("Compositing %dx%d", w, h)

	canvas := s.renderer.CreateCanvas(w, h, nil)

	canvas.DrawImage(input.Background.Image, input.Background.Left, input.Background.Top)

	if len(input.Overlay.Gradient.Stops) > 0 {
		canvas.DrawLinearGradient(0, 0, w, h, input.Overlay.Gradient)
	}

	if input.Poster.Image != nil {
		canvas.DrawImage(input.Poster.Image, input.Poster.Left, input.Poster.Top)
	}

	for _, el := range input.Overlay.Texts {
		canvas.DrawText(el.Text, el.X, el.Y, el.Style)
	}

	if input.Logo != nil && input.Logo.Image != nil {
		canvas.DrawImage(input.Logo.Image, input.Logo.Left, input.Logo.Top)
	}

	data, err := s.renderer.EncodeImage(canvas.ToImage(), ports.FormatPNG, 0)
	if err != nil {
		return pipeline.CompositeResult{}, fmt.Errorf("encode banner: %w", err)
	}

	if s.sink.Enabled() {
		s.sink.SaveBanner(input.Tag, data)
	}

	s.logger.Debug("Banner encoded: %d bytes", len(data))
	return pipeline.CompositeResult{PNG: data, Width: w, Height: h}, nil
}
