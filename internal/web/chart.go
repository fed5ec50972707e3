// internal/web/chart.go
package web

import (
	"math"
	"strconv"

	"listing-predictor/pkg/artifact"
)

const (
	ChartTitle  = "Model Coefficients impact on attributes"
	ChartWidth  = 800
	ChartHeight = 800

	chartMarginLeft   = 230
	chartMarginRight  = 40
	chartMarginTop    = 70
	chartMarginBottom = 50

	positiveFill = "#636efa"
	negativeFill = "#ef553b"
)

// Chart is a horizontal bar chart laid out in SVG user units.
type Chart struct {
	Title  string
	Width  int
	Height int

	PlotLeft   float64
	PlotTop    float64
	PlotWidth  float64
	PlotHeight float64
	ZeroX      float64

	Bars  []Bar
	Ticks []Tick
}

type Bar struct {
	Label  string
	Value  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
	LabelY float64
	Fill   string
}

type Tick struct {
	X     float64
	Label string
}

// BuildChart lays out one bar per weight, in table order from the top, with
// bars extending left or right of the zero axis by sign.
func BuildChart(table *artifact.CoefficientTable) *Chart {
	c := &Chart{
		Title:      ChartTitle,
		Width:      ChartWidth,
		Height:     ChartHeight,
		PlotLeft:   chartMarginLeft,
		PlotTop:    chartMarginTop,
		PlotWidth:  ChartWidth - chartMarginLeft - chartMarginRight,
		PlotHeight: ChartHeight - chartMarginTop - chartMarginBottom,
	}
	if table == nil {
		c.ZeroX = c.PlotLeft + c.PlotWidth/2
		return c
	}
	if table.Title != "" {
		c.Title = table.Title
	}

	lo, hi := 0.0, 0.0
	for _, w := range table.Weights {
		lo = math.Min(lo, w.Weight)
		hi = math.Max(hi, w.Weight)
	}
	if lo == hi {
		hi = lo + 1
	}
	scale := func(v float64) float64 {
		return c.PlotLeft + (v-lo)/(hi-lo)*c.PlotWidth
	}
	c.ZeroX = scale(0)

	n := len(table.Weights)
	if n == 0 {
		return c
	}
	band := c.PlotHeight / float64(n)
	for i, w := range table.Weights {
		x := scale(w.Weight)
		bar := Bar{
			Label:  w.Attribute,
			Value:  w.Weight,
			X:      math.Min(x, c.ZeroX),
			Y:      c.PlotTop + float64(i)*band + band*0.15,
			Width:  math.Abs(x - c.ZeroX),
			Height: band * 0.7,
			LabelY: c.PlotTop + float64(i)*band + band/2,
			Fill:   positiveFill,
		}
		if w.Weight < 0 {
			bar.Fill = negativeFill
		}
		c.Bars = append(c.Bars, bar)
	}

	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		c.Ticks = append(c.Ticks, Tick{X: scale(v), Label: formatTick(v)})
	}
	return c
}

func (c *Chart) PlotBottom() float64 { return c.PlotTop + c.PlotHeight }

func (c *Chart) TickLabelY() float64 { return c.PlotBottom() + 20 }

// LabelX is where attribute labels end, just left of the plot area.
func (c *Chart) LabelX() float64 { return c.PlotLeft - 8 }

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
