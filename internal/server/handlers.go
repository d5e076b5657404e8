package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/backtest"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": common.GetVersion(),
	})
}

// handleVersion responds to GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
	})
}

// handlePortfolio responds to GET /api/portfolio with the valuation snapshot.
// Optional query: currency (display currency code).
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	currency := strings.ToLower(r.URL.Query().Get("currency"))
	result, err := s.app.PortfolioService.Valuate(r.Context(), currency)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported currency") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Valuation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to value portfolio")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleHoldings responds to GET (list) and POST (add/top-up) /api/portfolio/holdings.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		holdings, err := s.app.PortfolioService.ListHoldings(r.Context())
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list holdings")
			WriteError(w, http.StatusInternalServerError, "Failed to list holdings")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"holdings": holdings})

	case http.MethodPost:
		var input interfaces.HoldingInput
		if !DecodeJSON(w, r, &input) {
			return
		}
		holding, err := s.app.PortfolioService.AddHolding(r.Context(), input)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, holding)

	default:
		w.Header().Set("Allow", "GET, POST")
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleHoldingUpdate responds to PUT /api/portfolio/holdings/{id}.
func (s *Server) handleHoldingUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var input interfaces.HoldingInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	input.ID = id

	holding, err := s.app.PortfolioService.UpdateHolding(r.Context(), input)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, holding)
}

// handleHoldingDelete responds to DELETE /api/portfolio/holdings/{id}.
func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.app.PortfolioService.RemoveHolding(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete holding")
		WriteError(w, http.StatusInternalServerError, "Failed to delete holding")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// timeframeFromQuery parses the timeframe query parameter, defaulting to 30d.
func timeframeFromQuery(r *http.Request) models.Timeframe {
	tf := models.Timeframe(r.URL.Query().Get("timeframe"))
	if tf == "" {
		return models.Timeframe30d
	}
	return tf
}

// handleSeries responds to GET /api/portfolio/series?timeframe=24h|7d|30d.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tf := timeframeFromQuery(r)
	series, err := s.app.PortfolioService.Series(r.Context(), tf)
	if err != nil {
		if strings.Contains(err.Error(), "unknown timeframe") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Failed to build series")
		WriteError(w, http.StatusInternalServerError, "Failed to build series")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timeframe": tf,
		"series":    series,
	})
}

// handleIndicators responds to GET /api/portfolio/indicators?timeframe=...
func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tf := timeframeFromQuery(r)
	indicators, err := s.app.PortfolioService.Indicators(r.Context(), tf)
	if err != nil {
		if strings.Contains(err.Error(), "unknown timeframe") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Failed to compute indicators")
		WriteError(w, http.StatusInternalServerError, "Failed to compute indicators")
		return
	}

	WriteJSON(w, http.StatusOK, indicators)
}

// handleRiskMetrics responds to GET /api/portfolio/metrics.
func (s *Server) handleRiskMetrics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.app.PortfolioService.RiskMetrics(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compute risk metrics")
		WriteError(w, http.StatusInternalServerError, "Failed to compute risk metrics")
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// handleChart responds to GET /api/portfolio/chart?timeframe=... with a PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tf := timeframeFromQuery(r)
	png, err := s.app.PortfolioService.RenderChart(r.Context(), tf)
	if err != nil {
		if strings.Contains(err.Error(), "unknown timeframe") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Failed to render chart")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// backtestRequest is the POST /api/backtest payload.
type backtestRequest struct {
	Strategy   models.StrategyID `json:"strategy"`
	PeriodDays int               `json:"period_days"`
}

// handleBacktest responds to POST /api/backtest, mapping the simulator's
// typed failures to specific user-facing messages.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req backtestRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = models.StrategyHold
	}

	result, err := s.app.BacktestService.Run(r.Context(), req.Strategy, req.PeriodDays)
	if err != nil {
		switch {
		case errors.Is(err, backtest.ErrNoHoldings):
			WriteErrorWithCode(w, http.StatusBadRequest, "Add holdings to run a backtest", "no_holdings")
		case errors.Is(err, backtest.ErrUnknownStrategy):
			WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "unknown_strategy")
		case errors.Is(err, backtest.ErrHistoryUnavailable):
			WriteErrorWithCode(w, http.StatusBadGateway, "Historical prices unavailable", "history_unavailable")
		case errors.Is(err, backtest.ErrNotEnoughHistory):
			WriteErrorWithCode(w, http.StatusUnprocessableEntity, "Not enough history to backtest", "not_enough_history")
		case errors.Is(err, backtest.ErrRunInProgress):
			WriteErrorWithCode(w, http.StatusConflict, "A backtest run is already in progress", "run_in_progress")
		default:
			s.logger.Error().Err(err).Msg("Backtest failed")
			WriteErrorWithCode(w, http.StatusInternalServerError, "Backtest failed", "backtest_failed")
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleBacktestRuns responds to GET /api/backtest/runs.
func (s *Server) handleBacktestRuns(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	runs, err := s.app.BacktestService.ListRuns(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list backtest runs")
		WriteError(w, http.StatusInternalServerError, "Failed to list backtest runs")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// handleBacktestStrategies responds to GET /api/backtest/strategies.
func (s *Server) handleBacktestStrategies(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": s.app.BacktestService.Strategies(),
	})
}
