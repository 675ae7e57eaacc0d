// Package layout implements the layout calculation stage.
package layout

import (
	"context"
	"math"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Canvas sizes per orientation.
var (
	HorizontalCanvas = pipeline.Dimension{Width: 1920, Height: 1080}
	VerticalCanvas   = pipeline.Dimension{Width: 1080, Height: 1920}
)

// Shared text spacing, in pixels between baselines.
const (
	TitleGap   = 60
	MetaGap    = 50
	LineHeight = 40

	// PosterAspect is poster height over width.
	PosterAspect = 1.5

	// DefaultPosterTop is the poster offset of the default model, as a
	// fraction of canvas height.
	DefaultPosterTop = 0.08

	// LogoSize is the side of the square logo box.
	LogoSize = 180
	// LogoTop and LogoRight position the logo box from the top-right corner.
	LogoTop   = 40
	LogoRight = 220

	// Synopsis wrap widths in characters.
	HorizontalWrap = 55
	VerticalWrap   = 35
)

// Stage calculates the banner geometry.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout for the requested orientation and model.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// Four branches:
//   - horizontal exclusive: poster on the left, text left-aligned to its right
//   - vertical exclusive: poster off-center, text centered below it
//   - horizontal default / vertical default: poster centered at 8% of the
//     canvas height, text centered below it
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	horizontal := input.Orientation == pipeline.OrientationHorizontal

	canvas := VerticalCanvas
	if horizontal {
		canvas = HorizontalCanvas
	}

	var result pipeline.LayoutResult
	result.Canvas = canvas
	result.Logo = pipeline.Rectangle{
		X:      canvas.Width - LogoRight,
		Y:      LogoTop,
		Width:  LogoSize,
		Height: LogoSize,
	}

	text := pipeline.TextBlock{
		Align:      ports.AlignCenter,
		WrapWidth:  VerticalWrap,
		TitleSize:  60,
		MetaSize:   32,
		BodySize:   30,
		TitleGap:   TitleGap,
		MetaGap:    MetaGap,
		LineHeight: LineHeight,
	}
	if horizontal {
		text.WrapWidth = HorizontalWrap
		text.TitleSize = 64
		text.MetaSize = 34
	}

	switch {
	case horizontal && input.Model.IsExclusive():
		result.Poster = poster(520, 120, 150)
		text.Align = ports.AlignLeft
		text.X = result.Poster.X + result.Poster.Width + 90
		text.Y = result.Poster.Y + 90
		text.MaxWidth = canvas.Width - text.X - 120
		text.TitleSize = 72

	case input.Model.IsExclusive():
		result.Poster = poster(560, 120, 300)
		text.X = canvas.Width / 2
		text.Y = result.Poster.Y + result.Poster.Height + 110
		text.MaxWidth = canvas.Width - 2*80

	case horizontal:
		result.Poster = centeredPoster(canvas, 360)
		text.X = canvas.Width / 2
		text.Y = result.Poster.Y + result.Poster.Height + 54
		text.MaxWidth = canvas.Width - 2*240

	default:
		result.Poster = centeredPoster(canvas, 600)
		text.X = canvas.Width / 2
		text.Y = result.Poster.Y + result.Poster.Height + 90
		text.MaxWidth = canvas.Width - 2*80
	}

	result.Text = text
	return result
}

func poster(width, left, top int) pipeline.Rectangle {
	return pipeline.Rectangle{
		X:      left,
		Y:      top,
		Width:  width,
		Height: int(math.Round(float64(width) * PosterAspect)),
	}
}

func centeredPoster(canvas pipeline.Dimension, width int) pipeline.Rectangle {
	top := int(math.Round(float64(canvas.Height) * DefaultPosterTop))
	return poster(width, (canvas.Width-width)/2, top)
}
