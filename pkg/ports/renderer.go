package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes image data into an image.Image.
	// FormatAuto sniffs the container from the registered decoders.
	DecodeImage(data []byte, format ImageFormat) (image.Image, string, error)

	// EncodeImage encodes an image to the specified format.
	// quality is only used for JPEG; PNG output always uses the same compression level.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to exactly the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image

	// CoverImage scales the image to fill width x height, cropping the
	// overflow around the center. Aspect ratio is preserved.
	CoverImage(img image.Image, width, height int) image.Image

	// ContainImage scales the image to fit inside width x height and pads the
	// remaining area with transparency. Aspect ratio is preserved.
	ContainImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for compositing images.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawLinearGradient fills a rectangle with a linear gradient.
	// Gradient coordinates are absolute canvas coordinates.
	DrawLinearGradient(x, y, w, h int, g LinearGradient)

	// DrawText draws text with its baseline at y.
	DrawText(text string, x, y int, style TextStyle)

	// MeasureText returns the width and height of the text.
	MeasureText(text string, style TextStyle) (width, height float64)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	Bold     bool
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// GradientStop is a color at a relative offset (0..1) along a gradient.
// Colors carry their own alpha; use color.NRGBA for translucent stops.
type GradientStop struct {
	Offset float64
	Color  color.Color
}

// LinearGradient describes a gradient between two points.
type LinearGradient struct {
	X0, Y0 float64
	X1, Y1 float64
	Stops  []GradientStop
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatAuto ImageFormat = iota
	FormatJPEG
	FormatPNG
)
