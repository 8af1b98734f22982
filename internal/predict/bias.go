// Package predict scores upcoming matchups for ball-proportion bias.
//
// A bias is a set of signed signals in [-1, 1]. Positive values lean toward
// the pair potting a ball more often than its threshold, negative values less.
package predict

import (
	"context"
	"sort"

	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

// Bias maps a signal key, usually a lowercase ball name, to its strength.
type Bias map[string]float64

// Scorer produces a bias for the features of one matchup.
type Scorer interface {
	Score(ctx context.Context, f Features) (Bias, error)
}

// Features is what scorers know about a matchup.
type Features struct {
	A          stats.Summary
	B          stats.Summary
	Pooled     stats.Summary
	Thresholds stats.Thresholds
}

// NewFeatures pools a and b and binds the thresholds.
func NewFeatures(a, b stats.Summary, t stats.Thresholds) Features {
	return Features{A: a, B: b, Pooled: stats.Pool(a, b), Thresholds: t}
}

// PooledDiff is the percent difference of the pooled average of ball over its threshold.
func (f Features) PooledDiff(ball snooker.Ball) float64 {
	return stats.PercentDiff(f.Pooled.Averages[ball], f.Thresholds[ball])
}

// Activation exposes the features as CEL variables.
func (f Features) Activation() map[string]any {
	vars := map[string]any{
		"a_games":  int64(f.A.Games),
		"b_games":  int64(f.B.Games),
		"a_frames": int64(f.A.Frames),
		"b_frames": int64(f.B.Frames),
	}
	for _, ball := range snooker.Balls {
		k := ball.Key()
		vars["a_"+k] = f.A.Averages[ball]
		vars["b_"+k] = f.B.Averages[ball]
		vars["t_"+k] = f.Thresholds[ball]
		vars["c_"+k] = f.Pooled.Averages[ball]
		vars["diff_"+k] = f.PooledDiff(ball)
	}
	return vars
}

const (
	LeanOver    = "over"
	LeanUnder   = "under"
	LeanNeutral = "neutral"
)

// Leaning classifies a signal against margin.
func Leaning(v, margin float64) string {
	switch {
	case v >= margin:
		return LeanOver
	case v <= -margin:
		return LeanUnder
	default:
		return LeanNeutral
	}
}

// Keys returns the keys of b: balls in display order first, then the rest sorted.
func (b Bias) Keys() []string {
	keys := make([]string, 0, len(b))
	known := make(map[string]bool, len(snooker.Balls))
	for _, ball := range snooker.Balls {
		known[ball.Key()] = true
		if _, ok := b[ball.Key()]; ok {
			keys = append(keys, ball.Key())
		}
	}
	var rest []string
	for k := range b {
		if !known[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
