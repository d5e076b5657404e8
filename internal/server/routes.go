package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/holdings/", s.routeHoldings)
	mux.HandleFunc("/api/portfolio/holdings", s.handleHoldings)
	mux.HandleFunc("/api/portfolio/series", s.handleSeries)
	mux.HandleFunc("/api/portfolio/indicators", s.handleIndicators)
	mux.HandleFunc("/api/portfolio/metrics", s.handleRiskMetrics)
	mux.HandleFunc("/api/portfolio/chart", s.handleChart)

	// Backtesting
	mux.HandleFunc("/api/backtest/runs", s.handleBacktestRuns)
	mux.HandleFunc("/api/backtest/strategies", s.handleBacktestStrategies)
	mux.HandleFunc("/api/backtest", s.handleBacktest)
}

// routeHoldings dispatches /api/portfolio/holdings/{id} to the appropriate handler.
func (s *Server) routeHoldings(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/portfolio/holdings/")
	id = strings.Trim(id, "/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "holding id is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleHoldingUpdate(w, r, id)
	case http.MethodDelete:
		s.handleHoldingDelete(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
