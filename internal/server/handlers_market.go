package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.ToUpper(PathParam(r, "/api/market/quote/"))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.Market.Quote(r.Context(), symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
		WriteError(w, http.StatusNotFound, "Quote unavailable for "+symbol)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// handleMarketFinancials handles GET /api/market/financials/{symbol}.
// Accepts an optional ?quarters=N (1 to 8, default 4).
func (s *Server) handleMarketFinancials(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.ToUpper(PathParam(r, "/api/market/financials/"))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quarters := 4
	if q := r.URL.Query().Get("quarters"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 8 {
			WriteError(w, http.StatusBadRequest, "quarters must be between 1 and 8")
			return
		}
		quarters = n
	}

	rows, err := s.app.Market.QuarterlyIncome(r.Context(), symbol, quarters)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Financials fetch failed")
		WriteError(w, http.StatusNotFound, "Financials unavailable for "+symbol)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"symbol":   symbol,
		"income":   rows,
		"quarters": quarters,
	})
}
