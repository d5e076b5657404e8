// Package backtest replays trading strategies over real historical closes
// for the portfolio's weighted composition and compares them to buy-and-hold.
package backtest

import "github.com/bobmcallan/folio/internal/models"

// Action is a strategy decision for one day of the composite path.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

// Strategy evaluates one day of the composite price path against the
// current position state. The position is binary: flat or fully invested.
type Strategy interface {
	ID() models.StrategyID
	Evaluate(day int, path []float64, invested bool) Action
}

// strategies is the closed registry of available variants.
var strategies = []Strategy{
	holdStrategy{},
	smaCrossStrategy{},
	rsiStrategy{},
	bollingerStrategy{},
}

// ForID returns the strategy for the given id.
func ForID(id models.StrategyID) (Strategy, bool) {
	for _, s := range strategies {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// IDs lists the registered strategy ids.
func IDs() []models.StrategyID {
	ids := make([]models.StrategyID, len(strategies))
	for i, s := range strategies {
		ids[i] = s.ID()
	}
	return ids
}

// holdStrategy buys on day 0 and never sells.
type holdStrategy struct{}

func (holdStrategy) ID() models.StrategyID { return models.StrategyHold }

func (holdStrategy) Evaluate(day int, _ []float64, _ bool) Action {
	if day == 0 {
		return ActionBuy
	}
	return ActionHold
}

// smaCrossStrategy trades the 20/50 simple moving average relation:
// invested while fast is above slow, flat while below.
type smaCrossStrategy struct{}

func (smaCrossStrategy) ID() models.StrategyID { return models.StrategySMACross }

func (smaCrossStrategy) Evaluate(day int, path []float64, invested bool) Action {
	fast, fastOK := trailingSMA(path, 20, day)
	slow, slowOK := trailingSMA(path, 50, day)
	if !fastOK || !slowOK {
		return ActionHold
	}
	if fast > slow && !invested {
		return ActionBuy
	}
	if fast < slow && invested {
		return ActionSell
	}
	return ActionHold
}

// rsiStrategy buys oversold (RSI < 30) and sells overbought (RSI > 70)
// using a simple 14-diff RSI on the composite path.
type rsiStrategy struct{}

func (rsiStrategy) ID() models.StrategyID { return models.StrategyRSI }

func (rsiStrategy) Evaluate(day int, path []float64, invested bool) Action {
	rsi := simpleRSI(path, day)
	if rsi < 30 && !invested {
		return ActionBuy
	}
	if rsi > 70 && invested {
		return ActionSell
	}
	return ActionHold
}

// bollingerStrategy buys a 5% breakout above the 20-period SMA and sells a
// 5% breakdown below it.
type bollingerStrategy struct{}

func (bollingerStrategy) ID() models.StrategyID { return models.StrategyBollinger }

func (bollingerStrategy) Evaluate(day int, path []float64, invested bool) Action {
	ma, ok := trailingSMA(path, 20, day)
	if !ok {
		return ActionHold
	}
	price := path[day]
	if price > ma*1.05 && !invested {
		return ActionBuy
	}
	if price < ma*0.95 && invested {
		return ActionSell
	}
	return ActionHold
}

// trailingSMA averages the `period` values ending at idx. Undefined until
// idx reaches the period.
func trailingSMA(path []float64, period, idx int) (float64, bool) {
	if idx < period {
		return 0, false
	}
	sum := 0.0
	for k := 0; k < period; k++ {
		sum += path[idx-k]
	}
	return sum / float64(period), true
}

// simpleRSI computes a non-smoothed RSI from the last 14 diffs ending at
// idx, returning the neutral 50 before enough history exists.
func simpleRSI(path []float64, idx int) float64 {
	if idx <= 14 {
		return 50
	}
	var gains, losses float64
	for k := 0; k < 14; k++ {
		d := path[idx-k] - path[idx-k-1]
		if d > 0 {
			gains += d
		} else if d < 0 {
			losses -= d
		}
	}
	if losses == 0 {
		return 100
	}
	return 100 - 100/(1+gains/losses)
}
