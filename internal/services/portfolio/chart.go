package portfolio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/models"
)

// RenderChart renders the synthetic value series for a timeframe as a PNG
// line chart with the Bollinger band overlay where defined.
func (s *Service) RenderChart(ctx context.Context, timeframe models.Timeframe) ([]byte, error) {
	series, err := s.Series(ctx, timeframe)
	if err != nil {
		return nil, err
	}
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(series))
	}

	xValues := make([]float64, len(series))
	yValues := make([]float64, len(series))
	for i, p := range series {
		xValues[i] = p.T
		yValues[i] = p.Value
	}

	valueSeries := chart.ContinuousSeries{
		Name: "Portfolio Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio Value (%s)", timeframe),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		Series: []chart.Series{valueSeries},
	}

	indicators := analytics.ComputeIndicators(series)
	if indicators.BB != nil {
		if upper, ok := bandSeries(xValues, indicators.BB.Upper); ok {
			graph.Series = append(graph.Series, chart.ContinuousSeries{
				Name: "BB Upper",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: upper.x,
				YValues: upper.y,
			})
		}
		if lower, ok := bandSeries(xValues, indicators.BB.Lower); ok {
			graph.Series = append(graph.Series, chart.ContinuousSeries{
				Name: "BB Lower",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: lower.x,
				YValues: lower.y,
			})
		}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf.Bytes(), nil
}

type xySeries struct {
	x []float64
	y []float64
}

// bandSeries collects the defined portion of a band, keeping x/y aligned.
func bandSeries(xValues []float64, band []models.NullFloat) (xySeries, bool) {
	var out xySeries
	for i, v := range band {
		if v.IsUnknown() {
			continue
		}
		out.x = append(out.x, xValues[i])
		out.y = append(out.y, v.Float64())
	}
	return out, len(out.x) >= 2
}
