// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/orionbanner/pkg/metrics"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
	"github.com/user/orionbanner/pkg/textlayout"
)

// Stages groups the pipeline steps in execution order.
type Stages struct {
	Validate   pipeline.Stage[pipeline.BannerRequest, pipeline.ValidatedRequest]
	Layout     pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	Background pipeline.Stage[pipeline.BackgroundInput, pipeline.BackgroundResult]
	Poster     pipeline.Stage[pipeline.PosterInput, pipeline.Layer]
	Overlay    pipeline.Stage[pipeline.OverlayInput, pipeline.OverlayResult]
	Logo       pipeline.Stage[pipeline.LogoInput, pipeline.LogoResult]
	Composite  pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult]
}

// Result is a finished banner.
type Result struct {
	PNG              []byte
	Filename         string
	Width            int
	Height           int
	BackgroundSource pipeline.BackgroundSource
	LogoSource       pipeline.LogoSource
}

// Compositor runs one banner request through every stage.
type Compositor struct {
	stages  Stages
	sink    ports.DebugSink
	metrics *metrics.Metrics
	logger  ports.Logger
}

// New creates a new Compositor. m may be nil.
func New(stages Stages, sink ports.DebugSink, m *metrics.Metrics, logger ports.Logger) *Compositor {
	return &Compositor{
		stages:  stages,
		sink:    sink,
		metrics: m,
		logger:  logger,
	}
}

// Compose validates req and renders it. Validation failures are returned as
// *pipeline.ValidationError; anything after validation is wrapped in
// *pipeline.CompositionError. No partial output is produced on error.
func (c *Compositor) Compose(ctx context.Context, req pipeline.BannerRequest, userID string) (Result, error) {
	start := time.Now()
	req.UserID = userID

	result, err := c.run(ctx, req)
	c.metrics.ObserveBanner(string(req.Orientation), string(req.ModelType), err == nil, time.Since(start))
	if err != nil {
		if pipeline.IsValidation(err) {
			c.logger.Warn(l10n.F("Request rejected: %s", err))
		} else {
			c.logger.Error(l10n.F("Failed to compose banner: %s", err))
		}
		return Result{}, err
	}

	c.logger.Info(l10n.F("Banner %s composed in %d ms", result.Filename, time.Since(start).Milliseconds()))
	return result, nil
}

func (c *Compositor) run(ctx context.Context, req pipeline.BannerRequest) (Result, error) {
	// 1. Validate
	validated, err := c.stages.Validate.Execute(ctx, req)
	if err != nil {
		return Result{}, pipeline.AsComposition("validate", err)
	}
	req = validated.Request
	tag := textlayout.SanitizeFilename(req.Title)

	c.logger.Info(l10n.F("Composing %s banner for %q", req.Orientation, req.Title))

	if c.sink.Enabled() {
		if data, err := json.MarshalIndent(req, "", "  "); err == nil {
			c.sink.SaveRequestJSON(tag, data)
		}
	}

	// 2. Canvas and geometry
	layout, err := c.stages.Layout.Execute(ctx, pipeline.LayoutInput{Orientation: req.Orientation, Model: req.ModelType})
	if err != nil {
		return Result{}, pipeline.AsComposition("layout", err)
	}

	// 3. Background
	background, err := c.stages.Background.Execute(ctx, pipeline.BackgroundInput{Request: req, Canvas: layout.Canvas})
	if err != nil {
		return Result{}, pipeline.AsComposition("background", err)
	}
	c.metrics.ObserveFallback("background", string(background.Source))

	// 4. Poster
	poster, err := c.stages.Poster.Execute(ctx, pipeline.PosterInput{URL: req.PosterURL, Rect: layout.Poster})
	if err != nil {
		return Result{}, pipeline.AsComposition("poster", err)
	}

	// 5. Gradient and text
	overlay, err := c.stages.Overlay.Execute(ctx, pipeline.OverlayInput{Request: validated, Layout: layout})
	if err != nil {
		return Result{}, pipeline.AsComposition("overlay", err)
	}

	// 6. Logo
	logo, err := c.stages.Logo.Execute(ctx, pipeline.LogoInput{UserID: req.UserID, Rect: layout.Logo})
	if err != nil {
		// The logo stage degrades on its own; an error here means cancellation.
		return Result{}, pipeline.AsComposition("logo", err)
	}
	c.metrics.ObserveFallback("logo", string(logo.Source))

	// 7. Composite
	composite, err := c.stages.Composite.Execute(ctx, pipeline.CompositeInput{
		Canvas:     layout.Canvas,
		Background: background.Layer,
		Overlay:    overlay.Overlay,
		Poster:     poster,
		Logo:       logo.Layer,
		Tag:        tag,
	})
	if err != nil {
		return Result{}, pipeline.AsComposition("composite", err)
	}

	return Result{
		PNG:              composite.PNG,
		Filename:         textlayout.BannerFilename(req.Title),
		Width:            composite.Width,
		Height:           composite.Height,
		BackgroundSource: background.Source,
		LogoSource:       logo.Source,
	}, nil
}
