package pipeline

import (
	"image"
	"image/color"
	"strings"

	"github.com/user/orionbanner/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Orientation selects the canvas shape.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// ParseOrientation maps the request "tipo" field. Anything other than
// "horizontal" is treated as vertical.
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.TrimSpace(s), string(OrientationHorizontal)) {
		return OrientationHorizontal
	}
	return OrientationVertical
}

// ModelType selects the layout algorithm.
type ModelType string

const (
	ModelDefault   ModelType = ""
	ModelExclusive ModelType = "ORION_EXCLUSIVO"
)

// ParseModelType maps the request "modeloTipo" field.
func ParseModelType(s string) ModelType {
	if strings.EqualFold(strings.TrimSpace(s), string(ModelExclusive)) {
		return ModelExclusive
	}
	return ModelDefault
}

// IsExclusive reports whether the dynamic-backdrop layout is selected.
func (m ModelType) IsExclusive() bool {
	return m == ModelExclusive
}

// Media types understood by the metadata providers.
const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// NormalizeMediaType maps the request "tmdbTipo" field to MediaMovie or
// MediaTV. Unknown or empty values are movies.
func NormalizeMediaType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tv", "series", "serie":
		return MediaTV
	default:
		return MediaMovie
	}
}

// ColorTheme is an entry of the fixed color catalog.
type ColorTheme struct {
	Key           string
	Primary       color.RGBA
	GradientStart color.RGBA
	GradientEnd   color.RGBA
}

// =============================================================================
// Request
// =============================================================================

// BannerRequest carries everything a client can ask for in one banner.
type BannerRequest struct {
	Orientation    Orientation
	ColorKey       string
	PosterURL      string
	Title          string
	Synopsis       string
	Genre          string
	Year           string
	RuntimeMinutes float64  // 0 or NaN when unknown
	Rating         *float64 // nil when unknown
	TMDBID         int64
	TMDBType       string
	ModelType      ModelType
	BackdropURL    string

	// UserID is the authenticated requester; used only for the logo lookup.
	UserID string
}

// ValidatedRequest is a request that passed validation together with its
// resolved theme.
type ValidatedRequest struct {
	Request BannerRequest
	Theme   ColorTheme
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput selects one of the four geometry branches.
type LayoutInput struct {
	Orientation Orientation
	Model       ModelType
}

// TextBlock positions the stacked title, metadata and synopsis lines.
type TextBlock struct {
	X          int // anchor x; left edge or center depending on Align
	Y          int // baseline of the title
	Align      ports.TextAlign
	WrapWidth  int // synopsis characters per line
	MaxWidth   int // pixel width available to the block
	TitleSize  float64
	MetaSize   float64
	BodySize   float64
	TitleGap   int // title baseline to metadata baseline
	MetaGap    int // metadata baseline to first synopsis baseline
	LineHeight int // synopsis baseline spacing
}

// LayoutResult contains the calculated layout dimensions and positions.
type LayoutResult struct {
	Canvas Dimension
	Poster Rectangle
	Text   TextBlock
	Logo   Rectangle
}

// =============================================================================
// Layer Types
// =============================================================================

// Layer is one entry of the composite z-stack.
type Layer struct {
	Name  string
	Image image.Image
	Top   int
	Left  int
}

// BackgroundSource records which fallback produced the background.
type BackgroundSource string

const (
	BackgroundBackdrop BackgroundSource = "backdrop"
	BackgroundMetadata BackgroundSource = "metadata"
	BackgroundFlat     BackgroundSource = "flat"
	BackgroundTheme    BackgroundSource = "theme"
)

// BackgroundInput contains parameters for background resolution.
type BackgroundInput struct {
	Request BannerRequest
	Canvas  Dimension
}

// BackgroundResult contains the canvas-sized background layer.
type BackgroundResult struct {
	Layer  Layer
	Source BackgroundSource
}

// PosterInput contains parameters for the poster layer.
type PosterInput struct {
	URL  string
	Rect Rectangle
}

// LogoSource records which fallback produced the logo.
type LogoSource string

const (
	LogoUser    LogoSource = "user"
	LogoDefault LogoSource = "default"
	LogoNone    LogoSource = "none"
)

// LogoInput contains parameters for logo resolution.
type LogoInput struct {
	UserID string
	Rect   Rectangle
}

// LogoResult contains the optional logo layer.
type LogoResult struct {
	Layer  *Layer
	Source LogoSource
}

// =============================================================================
// Overlay Stage Types
// =============================================================================

// OverlayInput contains parameters for the gradient and text overlay.
type OverlayInput struct {
	Request ValidatedRequest
	Layout  LayoutResult
}

// TextElement is one line of overlay text. Text is stored unescaped.
type TextElement struct {
	Role  string // "title", "meta" or "synopsis"
	Text  string
	X     int
	Y     int
	Style ports.TextStyle
}

// Overlay is the vector description of the gradient and text layers.
type Overlay struct {
	Canvas   Dimension
	Gradient ports.LinearGradient
	Texts    []TextElement
}

// OverlayResult carries the overlay model. SVG is the debug serialization
// and stays nil when debug output is disabled.
type OverlayResult struct {
	Overlay Overlay
	SVG     []byte
}

// =============================================================================
// Composite Stage Types
// =============================================================================

// CompositeInput contains every layer in z-order position.
type CompositeInput struct {
	Canvas     Dimension
	Background Layer
	Overlay    Overlay
	Poster     Layer
	Logo       *Layer

	// Tag names the debug artifacts; usually the sanitized title.
	Tag string
}

// CompositeResult contains the encoded banner.
type CompositeResult struct {
	PNG    []byte
	Width  int
	Height int
}
