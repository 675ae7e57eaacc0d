package poster

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/orionbanner/pkg/mocks"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

const posterURL = "https://image.tmdb.org/t/p/w500/x.jpg"

func TestStage_Execute(t *testing.T) {
	fetcher := mocks.NewImageFetcher(posterURL)
	renderer := &mocks.Renderer{}
	rect := pipeline.Rectangle{X: 240, Y: 154, Width: 600, Height: 900}

	got, err := NewStage(fetcher, renderer, mocks.NewLogger()).Execute(context.Background(), pipeline.PosterInput{URL: posterURL, Rect: rect})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got.Left != 240 || got.Top != 154 {
		t.Errorf("offset = (%d,%d)", got.Left, got.Top)
	}
	if b := got.Image.Bounds(); b.Dx() != 600 || b.Dy() != 900 {
		t.Errorf("poster size = %dx%d", b.Dx(), b.Dy())
	}
	if len(renderer.Covers) != 1 || renderer.Covers[0] != image.Pt(600, 900) {
		t.Errorf("covers = %v", renderer.Covers)
	}
	if !fetcher.Calls[0].UseCache {
		t.Error("posters are fetched through the cache")
	}
}

func TestStage_FetchFailure(t *testing.T) {
	fetcher := mocks.NewImageFetcher()
	_, err := NewStage(fetcher, &mocks.Renderer{}, mocks.NewLogger()).Execute(context.Background(), pipeline.PosterInput{URL: posterURL})

	var fe *pipeline.FetchError
	if !errors.As(err, &fe) {
		t.Errorf("expected FetchError, got %v", err)
	}
}

func TestStage_DecodeFailure(t *testing.T) {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, string, error) {
			return nil, "", errors.New("corrupt")
		},
	}
	_, err := NewStage(mocks.NewImageFetcher(posterURL), renderer, mocks.NewLogger()).
		Execute(context.Background(), pipeline.PosterInput{URL: posterURL})
	if err == nil {
		t.Error("expected decode error")
	}
}
