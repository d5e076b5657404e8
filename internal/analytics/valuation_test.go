package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestValuate_BasicPnl(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Symbol: "btc", Amount: 1, BuyPriceUSD: 100},
	}
	quotes := models.QuoteBook{
		"bitcoin": {"usd": 150, "usd_24h_change": 2.5},
	}

	result := Valuate(holdings, quotes, "usd", 1)
	require.Len(t, result.Holdings, 1)

	h := result.Holdings[0]
	assert.InDelta(t, 150, h.Value, 1e-9)
	assert.InDelta(t, 100, h.Cost.Float64(), 1e-9)
	assert.InDelta(t, 50, h.PnlAbs.Float64(), 1e-9)
	assert.InDelta(t, 50, h.PnlPct.Float64(), 1e-9)

	assert.InDelta(t, 150, result.Totals.TotalValue, 1e-9)
	assert.InDelta(t, 100, result.Totals.TotalCost.Float64(), 1e-9)
	assert.InDelta(t, 50, result.Totals.TotalPnlAbs.Float64(), 1e-9)
	assert.InDelta(t, 50, result.Totals.TotalPnlPct.Float64(), 1e-9)
	assert.InDelta(t, 2.5, result.Totals.DayChangePct.Float64(), 1e-9)
}

func TestValuate_MissingCostBasisPropagates(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 1, BuyPriceUSD: 100},
		{ID: "ethereum", Amount: 10, BuyPriceUSD: 0},
	}
	quotes := models.QuoteBook{
		"bitcoin":  {"usd": 150},
		"ethereum": {"usd": 20},
	}

	result := Valuate(holdings, quotes, "usd", 1)

	// The portfolio is still fully valued.
	assert.InDelta(t, 350, result.Totals.TotalValue, 1e-9)

	// One unknown cost basis forces every aggregate cost field to unknown.
	assert.True(t, result.Totals.TotalCost.IsUnknown())
	assert.True(t, result.Totals.TotalPnlAbs.IsUnknown())
	assert.True(t, result.Totals.TotalPnlPct.IsUnknown())

	// The holding with a known basis keeps its own P&L.
	var btc, eth *models.DetailedHolding
	for i := range result.Holdings {
		switch result.Holdings[i].ID {
		case "bitcoin":
			btc = &result.Holdings[i]
		case "ethereum":
			eth = &result.Holdings[i]
		}
	}
	require.NotNil(t, btc)
	require.NotNil(t, eth)
	assert.InDelta(t, 50, btc.PnlAbs.Float64(), 1e-9)
	assert.True(t, eth.Cost.IsUnknown())
	assert.True(t, eth.PnlAbs.IsUnknown())
	assert.True(t, eth.PnlPct.IsUnknown())
}

func TestValuate_PriceFallsBackToCostBasis(t *testing.T) {
	holdings := []models.Holding{
		{ID: "obscurecoin", Amount: 5, BuyPriceUSD: 2},
	}

	result := Valuate(holdings, models.QuoteBook{}, "usd", 1)
	require.Len(t, result.Holdings, 1)
	assert.InDelta(t, 2, result.Holdings[0].Price, 1e-9)
	assert.InDelta(t, 10, result.Holdings[0].Value, 1e-9)
}

func TestValuate_AllocationSumsToHundred(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 0.5, BuyPriceUSD: 30000},
		{ID: "ethereum", Amount: 4, BuyPriceUSD: 1800},
		{ID: "solana", Amount: 100, BuyPriceUSD: 20},
	}
	quotes := models.QuoteBook{
		"bitcoin":  {"usd": 43000},
		"ethereum": {"usd": 2300},
		"solana":   {"usd": 98},
	}

	result := Valuate(holdings, quotes, "usd", 1)

	var sum float64
	for _, h := range result.Holdings {
		sum += h.AllocationPct
	}
	assert.InDelta(t, 100, sum, 1e-6)

	// Sorted by value descending.
	for i := 1; i < len(result.Holdings); i++ {
		assert.GreaterOrEqual(t, result.Holdings[i-1].Value, result.Holdings[i].Value)
	}
}

func TestValuate_MoversExcludeDust(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 1, BuyPriceUSD: 100},
		{ID: "ethereum", Amount: 1, BuyPriceUSD: 100},
		{ID: "dustcoin", Amount: 1, BuyPriceUSD: 1},
	}
	quotes := models.QuoteBook{
		"bitcoin":  {"usd": 200, "usd_24h_change": 5},
		"ethereum": {"usd": 150, "usd_24h_change": -3},
		"dustcoin": {"usd": 2, "usd_24h_change": 99}, // below dust threshold
	}

	result := Valuate(holdings, quotes, "usd", 1)
	require.NotNil(t, result.Best)
	require.NotNil(t, result.Worst)
	assert.Equal(t, "bitcoin", result.Best.ID)
	assert.Equal(t, "ethereum", result.Worst.ID)
}

func TestValuate_EmptyPortfolio(t *testing.T) {
	result := Valuate(nil, models.QuoteBook{}, "usd", 1)

	assert.Zero(t, result.Totals.TotalValue)
	assert.True(t, result.Totals.DayChangePct.IsUnknown())
	assert.Nil(t, result.Best)
	assert.Nil(t, result.Worst)
	assert.Empty(t, result.Holdings)
}

func TestValuate_FXConversion(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 2, BuyPriceUSD: 100},
	}
	quotes := models.QuoteBook{
		"bitcoin": {"usd": 150},
	}

	result := Valuate(holdings, quotes, "eur", 0.9)
	require.Len(t, result.Holdings, 1)
	assert.InDelta(t, 135, result.Holdings[0].Price, 1e-9)
	assert.InDelta(t, 270, result.Totals.TotalValue, 1e-9)
	assert.InDelta(t, 180, result.Totals.TotalCost.Float64(), 1e-9)
	assert.Equal(t, "eur", result.Currency)
}

func TestValuate_InvalidFXRateDefaultsToOne(t *testing.T) {
	holdings := []models.Holding{{ID: "bitcoin", Amount: 1, BuyPriceUSD: 100}}
	quotes := models.QuoteBook{"bitcoin": {"usd": 150}}

	for _, rate := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		result := Valuate(holdings, quotes, "usd", rate)
		assert.Equal(t, 1.0, result.FXRate)
		assert.InDelta(t, 150, result.Totals.TotalValue, 1e-9)
	}
}

func TestValuate_NegativeAmountTreatedAsZero(t *testing.T) {
	holdings := []models.Holding{{ID: "bitcoin", Amount: -3, BuyPriceUSD: 100}}
	quotes := models.QuoteBook{"bitcoin": {"usd": 150}}

	result := Valuate(holdings, quotes, "usd", 1)
	require.Len(t, result.Holdings, 1)
	assert.Zero(t, result.Holdings[0].Value)
	assert.Zero(t, result.Totals.TotalValue)
}
