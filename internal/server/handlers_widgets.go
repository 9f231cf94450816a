package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// widgetRequest is the payload the dashboard posts back from widgetMeta.
type widgetRequest struct {
	Holdings         []models.WidgetHolding     `json:"holdings"`
	PortfolioSectors map[string]float64         `json:"portfolioSectors"`
	BySector         []models.SectorBucket      `json:"bySector"`
	Concentration    []models.ConcentrationRisk `json:"concentration"`
	AnalystOverview  *models.AnalystOverview    `json:"analystOverview"`
	Period           string                     `json:"period"`
}

// handleWidgetSectorMomentum handles POST /api/portfolio/widgets/sector-momentum.
func (s *Server) handleWidgetSectorMomentum(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	momentum, err := s.app.Widgets.SectorMomentum(r.Context(), req.PortfolioSectors)
	if err != nil {
		s.logger.Error().Err(err).Msg("Sector momentum failed")
		WriteError(w, http.StatusInternalServerError, "Sector momentum unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sectors": momentum})
}

// handleWidgetNews handles POST /api/portfolio/widgets/news.
func (s *Server) handleWidgetNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	news, err := s.app.Widgets.NewsDigest(r.Context(), req.Holdings)
	if err != nil {
		s.logger.Error().Err(err).Msg("News digest failed")
		WriteError(w, http.StatusInternalServerError, "News unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"news": news})
}

// handleWidgetPeers handles POST /api/portfolio/widgets/peers.
func (s *Server) handleWidgetPeers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comparisons, err := s.app.Widgets.PeerComparison(r.Context(), req.Holdings)
	if err != nil {
		s.logger.Error().Err(err).Msg("Peer comparison failed")
		WriteError(w, http.StatusInternalServerError, "Peer comparison unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"comparisons": comparisons})
}

// handleWidgetPerformance handles POST /api/portfolio/widgets/performance.
func (s *Server) handleWidgetPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Widgets.Performance(r.Context(), req.Holdings, req.Period)
	if err != nil {
		s.logger.Error().Err(err).Msg("Performance reconstruction failed")
		WriteError(w, http.StatusInternalServerError, "Performance unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleWidgetPerformanceChart handles POST /api/portfolio/widgets/performance/chart,
// returning a rendered PNG.
func (s *Server) handleWidgetPerformanceChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Widgets.Performance(r.Context(), req.Holdings, req.Period)
	if err != nil {
		s.logger.Error().Err(err).Msg("Performance reconstruction failed")
		WriteError(w, http.StatusInternalServerError, "Performance unavailable")
		return
	}

	png, err := s.app.Widgets.PerformanceChart(r.Context(), result)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "Not enough data to render chart")
		return
	}
	WritePNG(w, png)
}

// handleWidgetCorrelation handles POST /api/portfolio/widgets/correlation.
func (s *Server) handleWidgetCorrelation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Widgets.Correlation(r.Context(), req.Holdings)
	if err != nil {
		s.logger.Error().Err(err).Msg("Correlation failed")
		WriteError(w, http.StatusInternalServerError, "Correlation unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleWidgetESG handles POST /api/portfolio/widgets/esg.
func (s *Server) handleWidgetESG(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Widgets.ESG(r.Context(), req.Holdings)
	if err != nil {
		s.logger.Error().Err(err).Msg("ESG rollup failed")
		WriteError(w, http.StatusInternalServerError, "ESG unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleWidgetCommentary handles POST /api/portfolio/widgets/commentary.
func (s *Server) handleWidgetCommentary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req widgetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	commentary, err := s.app.Narrative.Commentary(r.Context(), &models.CommentaryRequest{
		Holdings:        req.Holdings,
		BySector:        req.BySector,
		Concentration:   req.Concentration,
		AnalystOverview: req.AnalystOverview,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Commentary failed")
		WriteError(w, http.StatusInternalServerError, "Commentary unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"commentary": commentary})
}
