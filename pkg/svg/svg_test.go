package svg

import (
	"encoding/xml"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"O'Brien", "O&apos;Brien"},
		{"&amp;", "&amp;amp;"},
		{"ação ⭐", "ação ⭐"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleOverlay(title string) pipeline.Overlay {
	return pipeline.Overlay{
		Canvas: pipeline.Dimension{Width: 1920, Height: 1080},
		Gradient: ports.LinearGradient{
			X0: 0, Y0: 0, X1: 1920, Y1: 0,
			Stops: []ports.GradientStop{
				{Offset: 0, Color: color.NRGBA{R: 0x4c, G: 0x1d, B: 0x95, A: 235}},
				{Offset: 0.55, Color: color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 178}},
				{Offset: 1, Color: color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0}},
			},
		},
		Texts: []pipeline.TextElement{
			{Role: "title", Text: title, X: 730, Y: 240, Style: ports.TextStyle{FontSize: 64, Bold: true, Color: color.White}},
			{Role: "meta", Text: "⭐ 7.8  |  2024", X: 730, Y: 300, Style: ports.TextStyle{FontSize: 34, Color: color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}, Align: ports.AlignCenter}},
		},
	}
}

func TestBuilder_Build(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	out, err := b.Build(sampleOverlay(`TOM & "JERRY" <3`))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	s := string(out)

	for _, want := range []string{
		`width="1920" height="1080"`,
		`<stop offset="0.55" stop-color="#8b5cf6" stop-opacity="0.698"/>`,
		`stop-opacity="0.000"`,
		`TOM &amp; &quot;JERRY&quot; &lt;3</text>`,
		`text-anchor="middle"`,
		`font-weight="bold"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q\n%s", want, s)
		}
	}
}

func TestBuilder_OutputIsWellFormed(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}

	hostile := []string{`</text><script>x</script>`, `a"b'c`, "&&&", "]]>"}
	for _, title := range hostile {
		out, err := b.Build(sampleOverlay(title))
		if err != nil {
			t.Fatalf("Build(%q) error = %v", title, err)
		}
		dec := xml.NewDecoder(strings.NewReader(string(out)))
		var texts []string
		for {
			tok, err := dec.Token()
			if err != nil {
				if err == io.EOF {
					break
				}
				t.Fatalf("title %q: markup not well formed: %v", title, err)
			}
			if cd, ok := tok.(xml.CharData); ok && strings.TrimSpace(string(cd)) != "" {
				texts = append(texts, string(cd))
			}
		}
		if len(texts) == 0 || texts[0] != title {
			t.Errorf("title %q round-tripped as %q", title, texts)
		}
	}
}
