// Package svg serializes a banner overlay as SVG markup.
package svg

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"text/template"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// FontFamily is the family named in the markup.
const FontFamily = "Arial, Helvetica, sans-serif"

// Builder renders overlays with a parsed template.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses the overlay template.
func NewBuilder() (*Builder, error) {
	tmpl, err := template.New("overlay").Funcs(template.FuncMap{
		"esc":        Escape,
		"hex":        hexColor,
		"alpha":      opacity,
		"anchor":     anchor,
		"num":        num,
		"weight":     weight,
		"fontFamily": func() string { return FontFamily },
	}).Parse(overlayTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Build renders the overlay. The gradient is drawn as a full-canvas rect
// followed by every text element in order.
func (b *Builder) Build(o pipeline.Overlay) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, o); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Escape replaces the five XML special characters. Every piece of
// user-supplied text passes through here before reaching the markup.
func Escape(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func nrgba(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func hexColor(c color.Color) string {
	n := nrgba(c)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func opacity(c color.Color) string {
	return strconv.FormatFloat(float64(nrgba(c).A)/255, 'f', 3, 64)
}

func anchor(a ports.TextAlign) string {
	switch a {
	case ports.AlignCenter:
		return "middle"
	case ports.AlignRight:
		return "end"
	default:
		return "start"
	}
}

func weight(bold bool) string {
	if bold {
		return "bold"
	}
	return "normal"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const overlayTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Canvas.Width}}" height="{{.Canvas.Height}}" viewBox="0 0 {{.Canvas.Width}} {{.Canvas.Height}}">
  <defs>
    <linearGradient id="overlay" gradientUnits="userSpaceOnUse" x1="{{num .Gradient.X0}}" y1="{{num .Gradient.Y0}}" x2="{{num .Gradient.X1}}" y2="{{num .Gradient.Y1}}">
{{- range .Gradient.Stops}}
      <stop offset="{{num .Offset}}" stop-color="{{hex .Color}}" stop-opacity="{{alpha .Color}}"/>
{{- end}}
    </linearGradient>
  </defs>
  <rect x="0" y="0" width="{{.Canvas.Width}}" height="{{.Canvas.Height}}" fill="url(#overlay)"/>
{{- range .Texts}}
  <text class="{{esc .Role}}" x="{{.X}}" y="{{.Y}}" font-family="{{esc fontFamily}}" font-size="{{num .Style.FontSize}}" font-weight="{{weight .Style.Bold}}" fill="{{hex .Style.Color}}" fill-opacity="{{alpha .Style.Color}}" text-anchor="{{anchor .Style.Align}}">{{esc .Text}}</text>
{{- end}}
</svg>
`
