package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/user/orionbanner/pkg/pipeline"
)

// DecodeRequest reads a banner request in the JSON format accepted by
// POST /api/gerar-banner.
func DecodeRequest(r io.Reader) (pipeline.BannerRequest, error) {
	var payload bannerPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return pipeline.BannerRequest{}, err
	}
	return payload.toRequest(), nil
}

// bannerPayload is the JSON body of POST /api/gerar-banner.
type bannerPayload struct {
	Tipo        string     `json:"tipo"`
	ModeloCor   string     `json:"modeloCor"`
	PosterURL   string     `json:"posterUrl"`
	Titulo      string     `json:"titulo"`
	Sinopse     string     `json:"sinopse"`
	Genero      string     `json:"genero"`
	Ano         flexString `json:"ano"`
	Duracao     flexNumber `json:"duracao"`
	Nota        flexNumber `json:"nota"`
	TMDBID      flexNumber `json:"tmdbId"`
	TMDBTipo    string     `json:"tmdbTipo"`
	ModeloTipo  string     `json:"modeloTipo"`
	BackdropURL string     `json:"backdropUrl"`
}

// toRequest maps the wire names onto a BannerRequest. Unusable numbers are
// treated as absent.
func (p bannerPayload) toRequest() pipeline.BannerRequest {
	req := pipeline.BannerRequest{
		Orientation: pipeline.ParseOrientation(p.Tipo),
		ColorKey:    p.ModeloCor,
		PosterURL:   p.PosterURL,
		Title:       p.Titulo,
		Synopsis:    p.Sinopse,
		Genre:       p.Genero,
		Year:        strings.TrimSpace(string(p.Ano)),
		TMDBType:    strings.ToLower(strings.TrimSpace(p.TMDBTipo)),
		ModelType:   pipeline.ParseModelType(p.ModeloTipo),
		BackdropURL: p.BackdropURL,
	}
	if p.Duracao.Valid {
		req.RuntimeMinutes = p.Duracao.Value
	}
	if p.Nota.Valid {
		v := p.Nota.Value
		req.Rating = &v
	}
	if p.TMDBID.Valid && p.TMDBID.Value > 0 && p.TMDBID.Value == math.Trunc(p.TMDBID.Value) {
		req.TMDBID = int64(p.TMDBID.Value)
	}
	return req
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = flexString(n.String())
	}
	return nil
}

// flexNumber accepts a JSON number or a numeric string. Null, empty and
// non-numeric strings leave it invalid.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = flexNumber{}
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		*n = flexNumber{Value: f, Valid: true}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("expected number, got %s", data)
		}
		*n = flexNumber{Value: f, Valid: true}
	}
	return nil
}
