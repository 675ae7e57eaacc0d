package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/orionbanner/pkg/adapters/logger"
	"github.com/user/orionbanner/pkg/catalog"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/urlguard"
)

func newStage(t *testing.T) *Stage {
	t.Helper()
	themes, err := catalog.New(catalog.Defaults(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewStage(urlguard.New(urlguard.DefaultHosts...), themes, logger.NewNoop())
}

func validRequest() pipeline.BannerRequest {
	return pipeline.BannerRequest{
		Orientation: pipeline.OrientationVertical,
		ColorKey:    "ROXO",
		PosterURL:   "https://image.tmdb.org/t/p/w500/x.jpg",
		Title:       "Test Movie",
	}
}

func TestStage_Valid(t *testing.T) {
	req := validRequest()
	req.Title = "  Test Movie  "
	req.ColorKey = "roxo"

	got, err := newStage(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got.Request.Title != "Test Movie" {
		t.Errorf("title = %q", got.Request.Title)
	}
	if got.Theme.Key != "ROXO" || got.Request.ColorKey != "ROXO" {
		t.Errorf("theme = %q, color key = %q", got.Theme.Key, got.Request.ColorKey)
	}
}

func TestStage_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pipeline.BannerRequest)
		field  string
	}{
		{"missing title", func(r *pipeline.BannerRequest) { r.Title = "" }, "titulo"},
		{"blank title", func(r *pipeline.BannerRequest) { r.Title = "   " }, "titulo"},
		{"long title", func(r *pipeline.BannerRequest) { r.Title = strings.Repeat("a", 101) }, "titulo"},
		{"missing poster", func(r *pipeline.BannerRequest) { r.PosterURL = "" }, "posterUrl"},
		{"foreign poster", func(r *pipeline.BannerRequest) { r.PosterURL = "https://evil.example.com/x.jpg" }, "posterUrl"},
		{"file poster", func(r *pipeline.BannerRequest) { r.PosterURL = "file:///etc/passwd" }, "posterUrl"},
		{"foreign backdrop", func(r *pipeline.BannerRequest) { r.BackdropURL = "http://169.254.169.254/latest" }, "backdropUrl"},
		{"unknown colour", func(r *pipeline.BannerRequest) { r.ColorKey = "ROSA" }, "modeloCor"},
		{"empty colour", func(r *pipeline.BannerRequest) { r.ColorKey = "" }, "modeloCor"},
		// Title is checked before URLs.
		{"title before poster", func(r *pipeline.BannerRequest) { r.Title = ""; r.PosterURL = "https://evil.example.com" }, "titulo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := newStage(t).Execute(context.Background(), req)
			var ve *pipeline.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestStage_TitleLengthCountsCharacters(t *testing.T) {
	req := validRequest()
	req.Title = strings.Repeat("ç", 100)
	if _, err := newStage(t).Execute(context.Background(), req); err != nil {
		t.Errorf("100 multi-byte characters should be accepted: %v", err)
	}
}

func TestStage_OutOfRangeRatingDropped(t *testing.T) {
	req := validRequest()
	r := 42.0
	req.Rating = &r

	got, err := newStage(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got.Request.Rating != nil {
		t.Errorf("rating = %v, want nil", *got.Request.Rating)
	}
}
