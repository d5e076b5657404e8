// Package analytics provides the pure portfolio computation core:
// valuation, synthetic series, technical indicators and risk metrics.
// Nothing here touches storage or the network; all functions are safe
// to call concurrently.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// dustThresholdUSD excludes tiny positions from best/worst mover selection.
const dustThresholdUSD = 10

// Valuate aggregates holdings against the quote book into a valuation
// snapshot. Prices fall back to the holding's own cost basis when the feed
// lacks the asset, so every row stays displayable. A missing cost basis on
// any holding forces the aggregate cost fields to the Unknown sentinel
// rather than understating P&L as break-even.
func Valuate(holdings []models.Holding, quotes models.QuoteBook, currency string, fxRate float64) *models.ValuationResult {
	if fxRate <= 0 || math.IsNaN(fxRate) || math.IsInf(fxRate, 0) {
		fxRate = 1
	}

	var (
		totalValue     float64
		totalCost      float64
		dayChangeAbs   float64
		hasMissingCost bool
	)

	detailed := make([]models.DetailedHolding, 0, len(holdings))
	for _, h := range holdings {
		quote := quotes[h.ID]
		priceUSD, hasPrice := quote.USD()
		if !hasPrice {
			priceUSD = h.BuyPriceUSD
		}
		changePct := quote.Change24h()

		price := priceUSD * fxRate
		buyPrice := h.BuyPriceUSD * fxRate

		amount := h.Amount
		if math.IsNaN(amount) || amount < 0 {
			amount = 0
		}
		value := amount * price

		cost := math.NaN()
		if buyPrice > 0 {
			cost = amount * buyPrice
		}

		pnlAbs := math.NaN()
		pnlPct := math.NaN()
		if !math.IsNaN(cost) {
			pnlAbs = value - cost
			if cost != 0 {
				pnlPct = pnlAbs / cost * 100
			}
		} else {
			hasMissingCost = true
		}

		totalValue += value
		if !math.IsNaN(cost) {
			totalCost += cost
		}
		dayChangeAbs += value * (changePct / 100)

		d := models.DetailedHolding{
			Holding:      h,
			Price:        price,
			Value:        value,
			Cost:         models.NullFloat(cost),
			PnlAbs:       models.NullFloat(pnlAbs),
			PnlPct:       models.NullFloat(pnlPct),
			Change24hPct: changePct,
		}
		d.Amount = amount
		detailed = append(detailed, d)
	}

	dayChangePct := math.NaN()
	if totalValue != 0 {
		dayChangePct = dayChangeAbs / totalValue * 100
	}

	aggCost := totalCost
	aggPnlAbs := totalValue - totalCost
	aggPnlPct := math.NaN()
	if hasMissingCost {
		aggCost = math.NaN()
		aggPnlAbs = math.NaN()
	} else if totalCost != 0 {
		aggPnlPct = aggPnlAbs / totalCost * 100
	}

	if totalValue > 0 {
		for i := range detailed {
			detailed[i].AllocationPct = detailed[i].Value / totalValue * 100
		}
	}

	best, worst := selectMovers(detailed, fxRate)

	sort.SliceStable(detailed, func(i, j int) bool {
		return detailed[i].Value > detailed[j].Value
	})

	return &models.ValuationResult{
		Totals: models.ValuationTotals{
			TotalValue:   totalValue,
			TotalCost:    models.NullFloat(aggCost),
			TotalPnlAbs:  models.NullFloat(aggPnlAbs),
			TotalPnlPct:  models.NullFloat(aggPnlPct),
			DayChangeAbs: dayChangeAbs,
			DayChangePct: models.NullFloat(dayChangePct),
		},
		Holdings: detailed,
		Best:     best,
		Worst:    worst,
		Currency: currency,
		FXRate:   fxRate,
		AsOf:     time.Now(),
	}
}

// selectMovers picks the best and worst 24h movers among non-dust holdings
// with a finite change. Returns nils when no holding qualifies.
func selectMovers(detailed []models.DetailedHolding, fxRate float64) (best, worst *models.DetailedHolding) {
	movers := make([]models.DetailedHolding, 0, len(detailed))
	for _, d := range detailed {
		if d.Value > dustThresholdUSD*fxRate && !math.IsNaN(d.Change24hPct) && !math.IsInf(d.Change24hPct, 0) {
			movers = append(movers, d)
		}
	}
	if len(movers) == 0 {
		return nil, nil
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].Change24hPct > movers[j].Change24hPct
	})

	b := movers[0]
	w := movers[len(movers)-1]
	return &b, &w
}
