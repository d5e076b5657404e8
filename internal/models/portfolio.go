// Package models defines data structures for Folio
package models

import "time"

// Holding represents a user position in one crypto asset.
// BuyPriceUSD is the weighted-average acquisition price in USD;
// zero means the cost basis is unknown.
type Holding struct {
	ID          string    `json:"id" badgerhold:"key"` // asset id, e.g. "bitcoin"
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	BuyPriceUSD float64   `json:"buy_price_usd"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasCostBasis reports whether the holding has a known acquisition price.
func (h *Holding) HasCostBasis() bool {
	return h.BuyPriceUSD > 0
}

// PriceQuote is one asset's quote row from the live feed:
// currency code -> price, plus "<code>_24h_change" -> percent change.
type PriceQuote map[string]float64

// QuoteBook maps asset id to its quote row. Replaced wholesale on refresh.
type QuoteBook map[string]PriceQuote

// USD returns the USD price and whether it was present in the row.
func (q PriceQuote) USD() (float64, bool) {
	v, ok := q["usd"]
	return v, ok
}

// Change24h returns the 24h USD change percent, 0 when absent.
func (q PriceQuote) Change24h() float64 {
	return q["usd_24h_change"]
}

// ValuationTotals aggregates the portfolio snapshot.
// Cost-derived fields are Unknown when any holding lacks a cost basis.
type ValuationTotals struct {
	TotalValue   float64   `json:"total_value"`
	TotalCost    NullFloat `json:"total_cost"`
	TotalPnlAbs  NullFloat `json:"total_pnl_abs"`
	TotalPnlPct  NullFloat `json:"total_pnl_pct"`
	DayChangeAbs float64   `json:"day_change_abs"`
	DayChangePct NullFloat `json:"day_change_pct"`
}

// DetailedHolding is a holding enriched with valuation fields.
type DetailedHolding struct {
	Holding
	Price         float64   `json:"price"`
	Value         float64   `json:"value"`
	Cost          NullFloat `json:"cost"`
	PnlAbs        NullFloat `json:"pnl_abs"`
	PnlPct        NullFloat `json:"pnl_pct"`
	Change24hPct  float64   `json:"change_24h_pct"`
	AllocationPct float64   `json:"allocation_pct"`
}

// ValuationResult is the derived portfolio snapshot. Recomputed on every
// valuation call, never mutated in place.
type ValuationResult struct {
	Totals   ValuationTotals   `json:"totals"`
	Holdings []DetailedHolding `json:"holdings"`
	Best     *DetailedHolding  `json:"best"`
	Worst    *DetailedHolding  `json:"worst"`

	Currency string    `json:"currency"`
	FXRate   float64   `json:"fx_rate"`
	Source   string    `json:"source,omitempty"` // "live" or "fallback"
	AsOf     time.Time `json:"as_of"`
}
