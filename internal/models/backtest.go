package models

import "time"

// StrategyID identifies a backtest strategy variant.
type StrategyID string

const (
	StrategyHold      StrategyID = "hold"
	StrategySMACross  StrategyID = "sma_cross"
	StrategyRSI       StrategyID = "rsi_strat"
	StrategyBollinger StrategyID = "bollinger"
)

// BacktestResult holds the outcome of one simulation run. Curves are
// aligned day-for-day over the common history window; MaxDrawdown values
// are positive peak-to-trough fractions.
type BacktestResult struct {
	Strategy   StrategyID `json:"strategy"`
	PeriodDays int        `json:"period_days"`
	StartValue float64    `json:"start_value"`

	BuyHoldCurve  []float64 `json:"buy_hold_curve"`
	StrategyCurve []float64 `json:"strategy_curve"`

	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"max_drawdown"`

	BuyHoldSharpe      float64 `json:"buy_hold_sharpe"`
	BuyHoldMaxDrawdown float64 `json:"buy_hold_max_drawdown"`

	Assets  []string `json:"assets"`            // assets included in the composite
	Skipped []string `json:"skipped,omitempty"` // assets dropped after fetch failures
}

// BacktestRun is the persisted record of a completed simulation.
type BacktestRun struct {
	ID          string     `json:"id" badgerhold:"key"`
	Strategy    StrategyID `json:"strategy"`
	PeriodDays  int        `json:"period_days"`
	RunAt       time.Time  `json:"run_at"`
	Sharpe      float64    `json:"sharpe"`
	Sortino     float64    `json:"sortino"`
	MaxDrawdown float64    `json:"max_drawdown"`
	FinalValue  float64    `json:"final_value"`
	BuyHoldEnd  float64    `json:"buy_hold_end"`
	Assets      []string   `json:"assets"`
	Skipped     []string   `json:"skipped,omitempty"`
}
