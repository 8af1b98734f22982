package stats

import (
	"fmt"

	"snookerviz/internal/snooker"
)

// Thresholds is the minimum expected proportion per ball.
type Thresholds map[snooker.Ball]float64

// DefaultThresholds returns the baseline proportions.
func DefaultThresholds() Thresholds {
	return Thresholds{
		snooker.Yellow: 0.111,
		snooker.Green:  0.118,
		snooker.Brown:  0.105,
		snooker.Blue:   0.308,
		snooker.Pink:   0.118,
		snooker.Black:  0.357,
		snooker.Baulk:  0.318,
	}
}

// Clone returns a copy of t.
func (t Thresholds) Clone() Thresholds {
	c := make(Thresholds, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Set stores v for ball, clamped to [0, 1].
func (t Thresholds) Set(ball snooker.Ball, v float64) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	t[ball] = v
}

// BallComparison is one bar of a player chart.
type BallComparison struct {
	Ball        snooker.Ball `json:"ball"`
	Average     float64      `json:"average"`
	Threshold   float64      `json:"threshold"`
	PercentDiff float64      `json:"percentDiff"`
	Label       string       `json:"label"`
	LabelColor  string       `json:"labelColor"`
	BarColor    string       `json:"barColor"`
}

// Below reports whether the average fell short of the threshold.
func (c BallComparison) Below() bool {
	return c.PercentDiff < 0
}

// Compare measures each ball average of s against t.
// A zero threshold yields a zero difference labelled "n/a".
func Compare(s Summary, t Thresholds) []BallComparison {
	out := make([]BallComparison, 0, len(snooker.Balls))
	for _, b := range snooker.Balls {
		c := BallComparison{
			Ball:      b,
			Average:   s.Averages[b],
			Threshold: t[b],
		}
		if c.Threshold > 0 {
			c.PercentDiff = PercentDiff(c.Average, c.Threshold)
			c.Label = fmt.Sprintf("%+.1f%%", c.PercentDiff)
		} else {
			c.Label = "n/a"
		}
		if c.Below() {
			c.LabelColor = "red"
			c.BarColor = snooker.BelowThresholdHex
		} else {
			c.LabelColor = "green"
			c.BarColor = b.Hex()
		}
		out = append(out, c)
	}
	return out
}

// PercentDiff is the relative difference of avg over threshold, in percent.
func PercentDiff(avg, threshold float64) float64 {
	if threshold == 0 {
		return 0
	}
	return (avg - threshold) / threshold * 100
}
