package portfolio

import (
	"math"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// fallbackQuotes builds deterministic demo quote rows when the live feed is
// entirely unavailable, so the valuation snapshot still renders. Prices are
// seeded from the epoch plus the asset's position, changes span -9%..+9%.
func fallbackQuotes(ids []string, fx models.FXRates, epochMs int64) models.QuoteBook {
	book := make(models.QuoteBook, len(ids))
	for idx, id := range ids {
		base := 12 + analytics.SeededRandom(float64(epochMs)+float64(idx))*800
		change := (analytics.SeededRandom(float64(epochMs)-float64(idx)) - 0.5) * 18

		row := models.PriceQuote{
			"usd":            round2(base),
			"usd_24h_change": round2(change),
		}
		for _, code := range common.SupportedCurrencies {
			if code == "usd" {
				continue
			}
			row[code] = round2(base * fx.Rate(code))
		}
		book[id] = row
	}
	return book
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
