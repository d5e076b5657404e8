package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := NewClient(
		WithBaseURL(ts.URL),
		WithRateLimit(1000),
		WithRetries(2),
	)
	return client, ts
}

func TestGetSimplePrices(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		gotQuery = map[string]string{
			"ids":                 r.URL.Query().Get("ids"),
			"vs_currencies":       r.URL.Query().Get("vs_currencies"),
			"include_24hr_change": r.URL.Query().Get("include_24hr_change"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 43000.5, "eur": 39000, "usd_24h_change": 1.75},
			"tether": {"usd": 1.0, "eur": 0.91}
		}`))
	})

	book, err := client.GetSimplePrices(context.Background(), []string{"bitcoin", "tether"}, []string{"usd", "eur"})
	require.NoError(t, err)

	assert.Equal(t, "bitcoin,tether", gotQuery["ids"])
	assert.Equal(t, "usd,eur", gotQuery["vs_currencies"])
	assert.Equal(t, "true", gotQuery["include_24hr_change"])

	require.Contains(t, book, "bitcoin")
	usd, ok := book["bitcoin"].USD()
	require.True(t, ok)
	assert.Equal(t, 43000.5, usd)
	assert.Equal(t, 1.75, book["bitcoin"].Change24h())
}

func TestGetSimplePrices_EmptyIDs(t *testing.T) {
	client := NewClient()

	book, err := client.GetSimplePrices(context.Background(), nil, []string{"usd"})
	require.NoError(t, err)
	assert.Empty(t, book)
}

func TestGetMarketChart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "31", r.URL.Query().Get("days"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices": [[1700000000000, 42000.5], [1700086400000, 42500.25]]}`))
	})

	points, err := client.GetMarketChart(context.Background(), "bitcoin", 31)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000000000), points[0].Timestamp)
	assert.Equal(t, 42000.5, points[0].Price)
	assert.Equal(t, 42500.25, points[1].Price)
}

func TestGetMarketChart_EmptyID(t *testing.T) {
	client := NewClient()

	_, err := client.GetMarketChart(context.Background(), "", 30)
	assert.Error(t, err)
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	_, err := client.GetSimplePrices(context.Background(), []string{"bitcoin"}, []string{"usd"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limited", apiErr.Message)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"bitcoin": {"usd": 100}}`))
	})

	book, err := client.GetSimplePrices(context.Background(), []string{"bitcoin"}, []string{"usd"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, book, "bitcoin")
}

func TestClient_APIKeyHeader(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(WithBaseURL(ts.URL), WithAPIKey("demo-key"), WithRateLimit(1000))

	_, err := client.GetSimplePrices(context.Background(), []string{"bitcoin"}, []string{"usd"})
	require.NoError(t, err)
	assert.Equal(t, "demo-key", gotKey)
}

func TestClient_ContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetSimplePrices(ctx, []string{"bitcoin"}, []string{"usd"})
	assert.Error(t, err)
}
