// Package catalog holds the fixed colour themes and their background assets.
package catalog

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// BackgroundBaseURL hosts the bundled theme backgrounds.
const BackgroundBaseURL = "https://res.cloudinary.com/orion-banners/image/upload/v1/themes/"

// Entry is the configured form of one theme.
type Entry struct {
	Key           string `yaml:"key" json:"key"`
	Primary       string `yaml:"primary" json:"primary"`
	GradientStart string `yaml:"gradient_start" json:"gradientStart"`
	GradientEnd   string `yaml:"gradient_end" json:"gradientEnd"`
	Background    string `yaml:"background" json:"background"`
}

// Defaults returns the built-in themes.
func Defaults() []Entry {
	entries := []Entry{
		{Key: "ROXO", Primary: "#8B5CF6", GradientStart: "#4C1D95", GradientEnd: "#8B5CF6"},
		{Key: "AZUL", Primary: "#3B82F6", GradientStart: "#1E3A8A", GradientEnd: "#3B82F6"},
		{Key: "VERDE", Primary: "#22C55E", GradientStart: "#14532D", GradientEnd: "#22C55E"},
		{Key: "VERMELHO", Primary: "#EF4444", GradientStart: "#7F1D1D", GradientEnd: "#EF4444"},
		{Key: "LARANJA", Primary: "#F97316", GradientStart: "#7C2D12", GradientEnd: "#F97316"},
		{Key: "AMARELO", Primary: "#EAB308", GradientStart: "#713F12", GradientEnd: "#EAB308"},
		{Key: "DOURADO", Primary: "#D4AF37", GradientStart: "#6B4E16", GradientEnd: "#D4AF37"},
		{Key: "PRATA", Primary: "#C0C0C0", GradientStart: "#4B5563", GradientEnd: "#C0C0C0"},
	}
	for i := range entries {
		entries[i].Background = BackgroundBaseURL + strings.ToLower(entries[i].Key) + ".png"
	}
	return entries
}

// Catalog is an immutable set of themes keyed by upper-case name.
type Catalog struct {
	themes      map[string]pipeline.ColorTheme
	backgrounds map[string]string
	entries     []Entry
}

// New parses and checks entries. Keys must be unique, colours must be
// #RRGGBB and every theme needs a background URL accepted by guard.
// A nil guard skips the URL check.
func New(entries []Entry, guard ports.URLValidator) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{
		themes:      make(map[string]pipeline.ColorTheme, len(entries)),
		backgrounds: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToUpper(strings.TrimSpace(e.Key))
		if key == "" {
			return nil, fmt.Errorf("catalog entry without key")
		}
		if _, dup := c.themes[key]; dup {
			return nil, fmt.Errorf("duplicate colour key %q", key)
		}

		theme := pipeline.ColorTheme{Key: key}
		var err error
		if theme.Primary, err = ParseHex(e.Primary); err != nil {
			return nil, fmt.Errorf("%s primary: %w", key, err)
		}
		if theme.GradientStart, err = ParseHex(e.GradientStart); err != nil {
			return nil, fmt.Errorf("%s gradient_start: %w", key, err)
		}
		if theme.GradientEnd, err = ParseHex(e.GradientEnd); err != nil {
			return nil, fmt.Errorf("%s gradient_end: %w", key, err)
		}

		bg := strings.TrimSpace(e.Background)
		if bg == "" {
			return nil, fmt.Errorf("%s: missing background", key)
		}
		if guard != nil && !guard.IsAllowed(bg) {
			return nil, fmt.Errorf("%s: background host not allowed: %s", key, bg)
		}

		c.themes[key] = theme
		c.backgrounds[key] = bg
		e.Key = key
		e.Background = bg
		c.entries = append(c.entries, e)
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Key < c.entries[j].Key })
	return c, nil
}

// Lookup returns the theme for key. Keys are matched case-insensitively.
func (c *Catalog) Lookup(key string) (pipeline.ColorTheme, bool) {
	t, ok := c.themes[strings.ToUpper(strings.TrimSpace(key))]
	return t, ok
}

// Background returns the background asset URL for key.
func (c *Catalog) Background(key string) (string, bool) {
	u, ok := c.backgrounds[strings.ToUpper(strings.TrimSpace(key))]
	return u, ok
}

// Entries returns the themes sorted by key.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ParseHex parses "#RRGGBB" (the leading # is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := nibble(h[2*i])
		lo, ok2 := nibble(h[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}, nil
}

func nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
