package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/portfolio"
)

const maxUploadBytes = 8 << 20 // 8MB

// handlePortfolioAnalyze handles POST /api/portfolio/analyze. Expects a
// multipart form with the export under the "csv" field.
func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Expected multipart form with a csv file")
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing csv file field")
		return
	}
	defer file.Close()

	analysis, err := s.app.Portfolio.AnalyzeCSV(r.Context(), file)
	if err != nil {
		if errors.Is(err, portfolio.ErrNoHoldings) {
			WriteError(w, http.StatusBadRequest, "no valid holdings found")
			return
		}
		s.logger.Error().Err(err).Msg("CSV analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// handlePortfolioManual handles POST /api/portfolio/manual. Body is a JSON
// array of {symbol, shares, costPerShare?}.
func (s *Server) handlePortfolioManual(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var entries []models.ManualEntry
	if !DecodeJSON(w, r, &entries) {
		return
	}

	analysis, err := s.app.Portfolio.AnalyzeManual(r.Context(), entries)
	if err != nil {
		if errors.Is(err, portfolio.ErrNoHoldings) {
			WriteError(w, http.StatusBadRequest, "no valid holdings found")
			return
		}
		s.logger.Error().Err(err).Msg("Manual analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}
