// internal/web/chart_test.go
package web

import (
	"testing"

	"listing-predictor/pkg/artifact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChart_Layout(t *testing.T) {
	chart := BuildChart(&artifact.CoefficientTable{
		Weights: []artifact.AttributeWeight{
			{Attribute: "a", Weight: 2},
			{Attribute: "b", Weight: -1},
			{Attribute: "c", Weight: 0},
		},
	})

	assert.Equal(t, ChartTitle, chart.Title)
	assert.Equal(t, 800, chart.Width)
	assert.Equal(t, 800, chart.Height)
	require.Len(t, chart.Bars, 3)

	// Domain is [-1, 2], so zero sits a third of the way across.
	assert.InDelta(t, chart.PlotLeft+chart.PlotWidth/3, chart.ZeroX, 1e-9)

	a, b, c := chart.Bars[0], chart.Bars[1], chart.Bars[2]
	assert.Equal(t, "a", a.Label)
	assert.InDelta(t, chart.ZeroX, a.X, 1e-9)
	assert.InDelta(t, chart.PlotWidth*2/3, a.Width, 1e-9)
	assert.Equal(t, positiveFill, a.Fill)

	assert.InDelta(t, chart.PlotLeft, b.X, 1e-9)
	assert.InDelta(t, chart.PlotWidth/3, b.Width, 1e-9)
	assert.Equal(t, negativeFill, b.Fill)

	assert.Zero(t, c.Width)

	assert.Less(t, a.Y, b.Y)
	assert.Less(t, b.Y, c.Y)
	assert.LessOrEqual(t, c.Y+c.Height, chart.PlotBottom())
	assert.Len(t, chart.Ticks, 5)
	assert.Equal(t, "-1.000", chart.Ticks[0].Label)
	assert.Equal(t, "2.000", chart.Ticks[4].Label)
}

func TestBuildChart_CustomTitle(t *testing.T) {
	chart := BuildChart(&artifact.CoefficientTable{
		Title:   "Weights",
		Weights: []artifact.AttributeWeight{{Attribute: "price", Weight: 0.5}},
	})
	assert.Equal(t, "Weights", chart.Title)
	require.Len(t, chart.Bars, 1)
	assert.InDelta(t, chart.PlotLeft, chart.ZeroX, 1e-9)
	assert.InDelta(t, chart.PlotWidth, chart.Bars[0].Width, 1e-9)
}

func TestBuildChart_EmptyTable(t *testing.T) {
	assert.Empty(t, BuildChart(nil).Bars)
	assert.Empty(t, BuildChart(&artifact.CoefficientTable{}).Bars)
}

func TestBuildChart_AllZeroWeights(t *testing.T) {
	chart := BuildChart(&artifact.CoefficientTable{
		Weights: []artifact.AttributeWeight{{Attribute: "x", Weight: 0}},
	})
	require.Len(t, chart.Bars, 1)
	assert.Zero(t, chart.Bars[0].Width)
	assert.InDelta(t, chart.PlotLeft, chart.ZeroX, 1e-9)
}
