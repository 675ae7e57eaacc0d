package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/orionbanner/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Canvases it creates record their draw calls.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, string, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	mu       sync.Mutex
	Canvases []*Canvas
	Covers   []image.Point // requested cover sizes
	Contains []image.Point // requested contain sizes
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{Width: width, Height: height, Background: bg}
	m.mu.Lock()
	m.Canvases = append(m.Canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, string, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 150)), "png", nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte("png"), nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) CoverImage(img image.Image, width, height int) image.Image {
	m.mu.Lock()
	m.Covers = append(m.Covers, image.Pt(width, height))
	m.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) ContainImage(img image.Image, width, height int) image.Image {
	m.mu.Lock()
	m.Contains = append(m.Contains, image.Pt(width, height))
	m.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// DrawOp is one recorded canvas call.
type DrawOp struct {
	Kind   string // "image", "rect", "gradient" or "text"
	X, Y   int
	W, H   int
	Text   string
	Style  ports.TextStyle
	Color  color.Color
	Grad   ports.LinearGradient
	Source image.Image
}

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	Width      int
	Height     int
	Background color.Color
	Ops        []DrawOp
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	m.Ops = append(m.Ops, DrawOp{Kind: "image", X: x, Y: y, W: b.Dx(), H: b.Dy(), Source: img})
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.Ops = append(m.Ops, DrawOp{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawLinearGradient(x, y, w, h int, g ports.LinearGradient) {
	m.Ops = append(m.Ops, DrawOp{Kind: "gradient", X: x, Y: y, W: w, H: h, Grad: g})
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Ops = append(m.Ops, DrawOp{Kind: "text", X: x, Y: y, Text: text, Style: style})
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len([]rune(text))) * style.FontSize * 0.5, style.FontSize
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
}

// Kinds returns the kinds of the recorded ops in order.
func (m *Canvas) Kinds() []string {
	kinds := make([]string, len(m.Ops))
	for i, op := range m.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

var _ ports.Canvas = (*Canvas)(nil)
