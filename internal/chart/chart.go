// Package chart draws the per-player ball comparison charts.
package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	thresholdHex = "#FF0000"
	headroom     = 1.15
	minRangeMax  = 0.05
)

// Options sizes the rendered chart in pixels.
type Options struct {
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`
}

// Bar is one ball of a chart.
type Bar struct {
	Ball       snooker.Ball `json:"ball"`
	Value      float64      `json:"value"`
	Threshold  float64      `json:"threshold"`
	Label      string       `json:"label"`
	Color      string       `json:"color"`
	LabelColor string       `json:"labelColor"`
}

// Spec describes a chart independently of how it is drawn.
type Spec struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bars   []Bar  `json:"bars"`
	// Max is the top of the value axis.
	Max float64 `json:"max"`
}

// Title formats the heading of a player chart.
func Title(player string, games, frames int) string {
	return fmt.Sprintf("%s (%d games / %d frames)", player, games, frames)
}

// Build turns comparisons into a chart spec.
func Build(title string, comparisons []stats.BallComparison, opts Options) Spec {
	spec := Spec{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		Bars:   make([]Bar, 0, len(comparisons)),
		Max:    minRangeMax,
	}
	for _, c := range comparisons {
		spec.Bars = append(spec.Bars, Bar{
			Ball:       c.Ball,
			Value:      c.Average,
			Threshold:  c.Threshold,
			Label:      c.Label,
			Color:      c.BarColor,
			LabelColor: c.LabelColor,
		})
		spec.Max = math.Max(spec.Max, math.Max(c.Average, c.Threshold)*headroom)
	}
	return spec
}

// RenderSVG draws spec as an SVG bar chart. Each ball is a filled average bar
// followed by an outlined threshold bar.
func RenderSVG(w io.Writer, spec Spec) error {
	if len(spec.Bars) == 0 {
		return fmt.Errorf("chart %q: no bars", spec.Title)
	}

	bars := make([]gochart.Value, 0, 2*len(spec.Bars))
	for _, b := range spec.Bars {
		fill := color(b.Color)
		bars = append(bars, gochart.Value{
			Label: string(b.Ball) + " " + b.Label,
			Value: b.Value,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: drawing.ColorBlack.WithAlpha(64),
				StrokeWidth: 1,
			},
		})
		bars = append(bars, gochart.Value{
			Label: "min",
			Value: b.Threshold,
			Style: gochart.Style{
				FillColor:       drawing.ColorWhite.WithAlpha(0),
				StrokeColor:     color(thresholdHex),
				StrokeWidth:     2,
				StrokeDashArray: []float64{4, 2},
			},
		})
	}

	bc := gochart.BarChart{
		Title:      spec.Title,
		Width:      spec.Width,
		Height:     spec.Height,
		BarWidth:   barWidth(spec.Width, len(bars)),
		BarSpacing: 6,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 12, Right: 12, Bottom: 12},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: spec.Max},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return bc.Render(gochart.SVG, w)
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 0
	}
	w := (width - 80) / bars
	if w < 8 {
		return 8
	}
	return w - 6
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
