package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

var startTime = time.Now()

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(startTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config. Secrets are never echoed.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]any{
		"environment": cfg.Environment,
		"cacheStore":  cfg.Cache.Store,
		"logLevel":    cfg.Logging.Level,
		"analysis": map[string]any{
			"stockConcentrationPct": cfg.Analysis.StockConcentrationPct,
			"fundConcentrationPct":  cfg.Analysis.FundConcentrationPct,
			"taxLossMinDollar":      cfg.Analysis.TaxLossMinDollar,
			"taxLossMinPct":         cfg.Analysis.TaxLossMinPct,
			"enrichWorkers":         cfg.Analysis.EnrichWorkers,
		},
	})
}
