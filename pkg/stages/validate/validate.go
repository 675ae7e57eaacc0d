// Package validate implements the request validation stage.
package validate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 100

// Themes resolves colour keys.
type Themes interface {
	Lookup(key string) (pipeline.ColorTheme, bool)
}

// Stage checks a request before any image I/O happens.
type Stage struct {
	guard  ports.URLValidator
	themes Themes
	logger ports.Logger
}

// NewStage creates a new validation stage.
func NewStage(guard ports.URLValidator, themes Themes, logger ports.Logger) *Stage {
	return &Stage{
		guard:  guard,
		themes: themes,
		logger: logger.WithComponent("validate"),
	}
}

// Execute validates input in order of cost: title first, then URLs, then
// the colour key. The returned request has its text fields trimmed.
func (s *Stage) Execute(ctx context.Context, input pipeline.BannerRequest) (pipeline.ValidatedRequest, error) {
	req := input
	req.Title = strings.TrimSpace(req.Title)
	req.PosterURL = strings.TrimSpace(req.PosterURL)
	req.BackdropURL = strings.TrimSpace(req.BackdropURL)
	req.Synopsis = strings.TrimSpace(req.Synopsis)

	if req.Title == "" {
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("titulo", "título é obrigatório")
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleLength {
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("titulo", "título excede 100 caracteres")
	}

	if req.PosterURL == "" {
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("posterUrl", "URL do pôster é obrigatória")
	}
	if !s.guard.IsAllowed(req.PosterURL) {
		s.logger.Warn("Rejected poster URL %s", req.PosterURL)
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("posterUrl", "URL do pôster não permitida")
	}
	if req.BackdropURL != "" && !s.guard.IsAllowed(req.BackdropURL) {
		s.logger.Warn("Rejected backdrop URL %s", req.BackdropURL)
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("backdropUrl", "URL do backdrop não permitida")
	}

	theme, ok := s.themes.Lookup(req.ColorKey)
	if !ok {
		return pipeline.ValidatedRequest{}, pipeline.NewValidationError("modeloCor", "cor inválida: "+req.ColorKey)
	}
	req.ColorKey = theme.Key

	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		s.logger.Debug("Ignoring out-of-range rating %.2f", *req.Rating)
		req.Rating = nil
	}

	return pipeline.ValidatedRequest{Request: req, Theme: theme}, nil
}
