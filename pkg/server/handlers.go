package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ideamans/go-l10n"
	"github.com/user/orionbanner/pkg/pipeline"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type colorView struct {
	Key           string `json:"key"`
	Primary       string `json:"primary"`
	GradientStart string `json:"gradientStart"`
	GradientEnd   string `json:"gradientEnd"`
}

func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	entries := s.themes.Entries()
	out := make([]colorView, 0, len(entries))
	for _, e := range entries {
		out = append(out, colorView{
			Key:           e.Key,
			Primary:       e.Primary,
			GradientStart: e.GradientStart,
			GradientEnd:   e.GradientEnd,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"cores": out})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.clearCaches()
	s.logger.Info(l10n.F("Caches cleared by %s", UserID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerateBanner(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	req, err := DecodeRequest(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "corpo da requisição muito grande")
			return
		}
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	result, err := s.compositor.Compose(r.Context(), req, UserID(r.Context()))
	if err != nil {
		var ve *pipeline.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field})
			return
		}
		s.logger.Debug("Request %s failed: %v", RequestID(r.Context()), err)
		writeError(w, http.StatusInternalServerError, "erro ao gerar o banner")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Disposition", "attachment; filename="+result.Filename)
	h.Set("Content-Length", strconv.Itoa(len(result.PNG)))
	h.Set("X-Banner-Background", string(result.BackgroundSource))
	h.Set("X-Banner-Logo", string(result.LogoSource))
	w.WriteHeader(http.StatusOK)
	w.Write(result.PNG)
}
