// Package stats computes frame-weighted color proportions per player.
package stats

import (
	"snookerviz/internal/snooker"
)

// Summary is the aggregate of one player's games.
type Summary struct {
	Player string `json:"player"`
	// Averages is the frame-weighted mean proportion per ball.
	Averages map[snooker.Ball]float64 `json:"averages"`
	Games    int                      `json:"games"`
	// Frames is the truncated total of frames played.
	Frames int `json:"frames"`

	FrameSum     float64                  `json:"-"`
	WeightedSums map[snooker.Ball]float64 `json:"-"`
}

// ForPlayer aggregates every game in which name took part.
func ForPlayer(games []snooker.Game, name string) Summary {
	s := Summary{
		Player:       name,
		WeightedSums: make(map[snooker.Ball]float64, len(snooker.Balls)),
	}
	for _, g := range games {
		if !g.Involves(name) {
			continue
		}
		s.Games++
		s.FrameSum += g.Frames
		for _, b := range snooker.Balls {
			s.WeightedSums[b] += g.Proportions[b] * g.Frames
		}
	}
	s.finish()
	return s
}

// Pool merges two summaries into one, weighting each by its frames.
func Pool(a, b Summary) Summary {
	s := Summary{
		Player:       a.Player + " + " + b.Player,
		Games:        a.Games + b.Games,
		FrameSum:     a.FrameSum + b.FrameSum,
		WeightedSums: make(map[snooker.Ball]float64, len(snooker.Balls)),
	}
	for _, ball := range snooker.Balls {
		s.WeightedSums[ball] = a.WeightedSums[ball] + b.WeightedSums[ball]
	}
	s.finish()
	return s
}

func (s *Summary) finish() {
	s.Frames = int(s.FrameSum)
	s.Averages = make(map[snooker.Ball]float64, len(snooker.Balls))
	for _, b := range snooker.Balls {
		if s.FrameSum > 0 {
			s.Averages[b] = s.WeightedSums[b] / s.FrameSum
		} else {
			s.Averages[b] = 0
		}
	}
}
