// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/user/orionbanner/pkg/ports"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	regular []byte
	bold    []byte
}

// WithFonts replaces the embedded Go fonts with TrueType/OpenType data.
// A nil slice keeps the embedded font for that weight.
func WithFonts(regular, bold []byte) Option {
	return func(o *options) {
		if regular != nil {
			o.regular = regular
		}
		if bold != nil {
			o.bold = bold
		}
	}
}

// Renderer implements ports.Renderer using the gg library.
// Parsed fonts are shared; font faces are created per canvas.
type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
	encoder png.Encoder
}

// New creates a new Renderer.
func New(opts ...Option) (*Renderer, error) {
	o := options{regular: goregular.TTF, bold: gobold.TTF}
	for _, opt := range opts {
		opt(&o)
	}

	regular, err := opentype.Parse(o.regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(o.bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &Renderer{
		regular: regular,
		bold:    bold,
		encoder: png.Encoder{
			CompressionLevel: png.DefaultCompression,
			BufferPool:       &bufferPool{},
		},
	}, nil
}

// CreateCanvas creates a new drawing canvas. A nil bg leaves it transparent.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	if bg != nil {
		dc.SetColor(bg)
		dc.Clear()
	}
	return &Canvas{dc: dc, r: r, faces: make(map[faceKey]font.Face)}
}

// DecodeImage decodes image data into an image.Image and reports the
// detected format name.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, string, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		img, err := jpeg.Decode(reader)
		return img, "jpeg", err
	case ports.FormatPNG:
		img, err := png.Decode(reader)
		return img, "png", err
	default:
		return image.Decode(reader)
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := r.encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// CoverImage scales img to fill width x height and crops the overflow
// around the center.
func (r *Renderer) CoverImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Empty() || width <= 0 || height <= 0 {
		return dst
	}

	scale := math.Max(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	srcW := int(math.Round(float64(width) / scale))
	srcH := int(math.Round(float64(height) / scale))
	srcW = min(max(srcW, 1), b.Dx())
	srcH = min(max(srcH, 1), b.Dy())

	x0 := b.Min.X + (b.Dx()-srcW)/2
	y0 := b.Min.Y + (b.Dy()-srcH)/2
	src := image.Rect(x0, y0, x0+srcW, y0+srcH)

	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// ContainImage scales img to fit inside width x height, centered on a
// transparent background.
func (r *Renderer) ContainImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Empty() || width <= 0 || height <= 0 {
		return dst
	}

	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := max(int(math.Round(float64(b.Dx())*scale)), 1)
	h := max(int(math.Round(float64(b.Dy())*scale)), 1)
	x := (width - w) / 2
	y := (height - h) / 2

	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), img, b, draw.Src, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

type faceKey struct {
	size float64
	bold bool
}

// Canvas implements ports.Canvas using gg.Context.
// A Canvas must not be used from more than one goroutine.
type Canvas struct {
	dc    *gg.Context
	r     *Renderer
	faces map[faceKey]font.Face
	buf   sfnt.Buffer
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawLinearGradient fills a rectangle with a linear gradient.
func (c *Canvas) DrawLinearGradient(x, y, w, h int, g ports.LinearGradient) {
	grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
	for _, s := range g.Stops {
		grad.AddColorStop(s.Offset, s.Color)
	}
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawText draws text with its baseline at y. A star rune the font cannot
// render is drawn as a vector star; other missing glyphs are skipped.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	spans := c.spans(text, style.Bold)
	if len(spans) == 0 {
		return
	}
	c.dc.SetFontFace(c.face(style))
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	width := c.spansWidth(spans, style.FontSize)
	pen := float64(x) - ax*width
	for _, sp := range spans {
		if sp.star {
			w := starWidth(style.FontSize)
			c.drawStar(pen+w/2, float64(y)-style.FontSize*0.35, style.FontSize*0.42)
			pen += w
			continue
		}
		c.dc.DrawString(sp.text, pen, float64(y))
		w, _ := c.dc.MeasureString(sp.text)
		pen += w
	}
}

// MeasureText returns the width and height of the text.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (width, height float64) {
	c.dc.SetFontFace(c.face(style))
	spans := c.spans(text, style.Bold)
	_, height = c.dc.MeasureString(text)
	return c.spansWidth(spans, style.FontSize), height
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

func (c *Canvas) face(style ports.TextStyle) font.Face {
	key := faceKey{size: style.FontSize, bold: style.Bold}
	if f, ok := c.faces[key]; ok {
		return f
	}

	src := c.r.regular
	if style.Bold {
		src = c.r.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    style.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only reachable with a non-positive size.
		return basicfont.Face7x13
	}
	c.faces[key] = f
	return f
}

// textSpan is a run of drawable text or a single substituted star.
type textSpan struct {
	text string
	star bool
}

func isStar(r rune) bool {
	return r == '\u2b50' || r == '\u2605'
}

func starWidth(size float64) float64 {
	return size * 0.9
}

// spans splits text into runs the font can draw and stars to be drawn as
// paths. Other runes without a glyph are dropped; when that happens and no
// star was substituted the result is trimmed.
func (c *Canvas) spans(text string, bold bool) []textSpan {
	f := c.r.regular
	if bold {
		f = c.r.bold
	}

	var (
		spans   []textSpan
		b       strings.Builder
		missing bool
		stars   bool
	)
	flush := func() {
		if b.Len() > 0 {
			spans = append(spans, textSpan{text: b.String()})
			b.Reset()
		}
	}
	for _, r := range text {
		if idx, err := f.GlyphIndex(&c.buf, r); err == nil && idx != 0 {
			b.WriteRune(r)
			continue
		}
		if isStar(r) {
			flush()
			spans = append(spans, textSpan{star: true})
			stars = true
			continue
		}
		missing = true
	}
	flush()

	if missing && !stars && len(spans) == 1 {
		spans[0].text = strings.TrimSpace(spans[0].text)
		if spans[0].text == "" {
			return nil
		}
	}
	return spans
}

func (c *Canvas) spansWidth(spans []textSpan, size float64) float64 {
	total := 0.0
	for _, sp := range spans {
		if sp.star {
			total += starWidth(size)
			continue
		}
		w, _ := c.dc.MeasureString(sp.text)
		total += w
	}
	return total
}

// drawStar fills a five-pointed star centred on (cx, cy) with the current
// colour.
func (c *Canvas) drawStar(cx, cy, outer float64) {
	inner := outer * 0.382
	for i := 0; i < 10; i++ {
		radius := outer
		if i%2 == 1 {
			radius = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		px := cx + radius*math.Cos(angle)
		py := cy + radius*math.Sin(angle)
		if i == 0 {
			c.dc.MoveTo(px, py)
		} else {
			c.dc.LineTo(px, py)
		}
	}
	c.dc.ClosePath()
	c.dc.Fill()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)

type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}
