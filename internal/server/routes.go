package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Portfolio analysis
	mux.HandleFunc("/api/portfolio/analyze", s.handlePortfolioAnalyze)
	mux.HandleFunc("/api/portfolio/manual", s.handlePortfolioManual)

	// Widgets
	mux.HandleFunc("/api/portfolio/widgets/sector-momentum", s.handleWidgetSectorMomentum)
	mux.HandleFunc("/api/portfolio/widgets/news", s.handleWidgetNews)
	mux.HandleFunc("/api/portfolio/widgets/peers", s.handleWidgetPeers)
	mux.HandleFunc("/api/portfolio/widgets/performance", s.handleWidgetPerformance)
	mux.HandleFunc("/api/portfolio/widgets/performance/chart", s.handleWidgetPerformanceChart)
	mux.HandleFunc("/api/portfolio/widgets/correlation", s.handleWidgetCorrelation)
	mux.HandleFunc("/api/portfolio/widgets/esg", s.handleWidgetESG)
	mux.HandleFunc("/api/portfolio/widgets/commentary", s.handleWidgetCommentary)

	// Market data
	mux.HandleFunc("/api/market/quote/", s.handleMarketQuote)
	mux.HandleFunc("/api/market/financials/", s.handleMarketFinancials)
}
