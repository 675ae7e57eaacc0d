// Package overlay implements the gradient and text overlay stage.
package overlay

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
	"github.com/user/orionbanner/pkg/svg"
	"github.com/user/orionbanner/pkg/textlayout"
)

// Overlay colours.
var (
	TitleColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	SynopsisColor = color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
	// DefaultShade darkens the theme background on the default model.
	DefaultShade = color.NRGBA{A: 115}
)

// MaxTitleLines bounds how many lines a long title may take.
const MaxTitleLines = 2

// Stage builds the overlay model and its SVG markup.
type Stage struct {
	builder *svg.Builder
	sink    ports.DebugSink
	logger  ports.Logger
}

// NewStage creates a new overlay stage.
func NewStage(builder *svg.Builder, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		builder: builder,
		sink:    sink,
		logger:  logger.WithComponent("overlay"),
	}
}

// Execute lays out the gradient and text. The SVG markup is a debug
// artifact: the composite stage rasterizes the Overlay model, so the markup
// is only rendered and saved when the debug sink is enabled.
func (s *Stage) Execute(ctx context.Context, input pipeline.OverlayInput) (pipeline.OverlayResult, error) {
	result := pipeline.OverlayResult{}

	s.logger.Debug("Building overlay")
	result.Overlay = BuildOverlay(input)
	s.logger.Debug("Overlay built: %d text elements", len(result.Overlay.Texts))

	if !s.sink.Enabled() {
		return result, nil
	}

	markup, err := s.builder.Build(result.Overlay)
	if err != nil {
		return result, fmt.Errorf("render SVG: %w", err)
	}
	result.SVG = markup
	s.sink.SaveOverlaySVG(textlayout.SanitizeFilename(input.Request.Request.Title), markup)

	return result, nil
}

// BuildOverlay computes the overlay model. It is pure.
func BuildOverlay(input pipeline.OverlayInput) pipeline.Overlay {
	req := input.Request.Request
	theme := input.Request.Theme
	canvas := input.Layout.Canvas
	block := input.Layout.Text

	return pipeline.Overlay{
		Canvas:   canvas,
		Gradient: gradient(req.ModelType, theme, canvas),
		Texts:    texts(req, theme, block),
	}
}

func gradient(model pipeline.ModelType, theme pipeline.ColorTheme, canvas pipeline.Dimension) ports.LinearGradient {
	g := ports.LinearGradient{X0: 0, Y0: 0, X1: float64(canvas.Width), Y1: 0}
	if !model.IsExclusive() {
		g.Stops = []ports.GradientStop{
			{Offset: 0, Color: DefaultShade},
			{Offset: 1, Color: DefaultShade},
		}
		return g
	}
	g.Stops = []ports.GradientStop{
		{Offset: 0, Color: withAlpha(theme.GradientStart, 235)},
		{Offset: 0.55, Color: withAlpha(theme.GradientEnd, 178)},
		{Offset: 1, Color: withAlpha(theme.GradientEnd, 0)},
	}
	return g
}

func texts(req pipeline.BannerRequest, theme pipeline.ColorTheme, block pipeline.TextBlock) []pipeline.TextElement {
	var out []pipeline.TextElement
	y := block.Y

	titleStyle := ports.TextStyle{FontSize: block.TitleSize, Bold: true, Color: TitleColor, Align: block.Align}
	for i, line := range titleLines(req.Title, block) {
		if i > 0 {
			y += int(block.TitleSize * 1.1)
		}
		out = append(out, pipeline.TextElement{Role: "title", Text: line, X: block.X, Y: y, Style: titleStyle})
	}

	y += block.TitleGap
	out = append(out, pipeline.TextElement{
		Role:  "meta",
		Text:  textlayout.MetadataLine(req.Rating, req.Year, req.Genre, req.RuntimeMinutes),
		X:     block.X,
		Y:     y,
		Style: ports.TextStyle{FontSize: block.MetaSize, Color: theme.Primary, Align: block.Align},
	})

	bodyStyle := ports.TextStyle{FontSize: block.BodySize, Color: SynopsisColor, Align: block.Align}
	for i, line := range textlayout.Wrap(req.Synopsis, block.WrapWidth) {
		if i == 0 {
			y += block.MetaGap
		} else {
			y += block.LineHeight
		}
		out = append(out, pipeline.TextElement{Role: "synopsis", Text: line, X: block.X, Y: y, Style: bodyStyle})
	}
	return out
}

// titleLines uppercases the title and wraps it to the block width using an
// average glyph width of 0.58 em.
func titleLines(title string, block pipeline.TextBlock) []string {
	title = strings.ToUpper(title)
	if block.MaxWidth <= 0 || block.TitleSize <= 0 {
		return []string{title}
	}
	perLine := int(float64(block.MaxWidth) / (block.TitleSize * 0.58))
	lines := textlayout.Wrap(title, perLine)
	if len(lines) <= MaxTitleLines {
		return lines
	}
	lines = lines[:MaxTitleLines]
	lines[MaxTitleLines-1] += "…"
	return lines
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
