// Package filter selects the games a comparison is computed over.
package filter

import (
	"time"

	"snookerviz/internal/snooker"
)

// Criteria restricts games by tournament and date. Both date bounds are inclusive.
type Criteria struct {
	// Tournaments is the allowed set; an empty set matches no game.
	Tournaments []string  `json:"tournaments"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Match reports whether g passes the criteria.
func (c Criteria) Match(g snooker.Game) bool {
	if !c.allows(g.Tournament) {
		return false
	}
	date := Day(g.Date)
	return !date.Before(Day(c.From)) && !date.After(Day(c.To))
}

func (c Criteria) allows(tournament string) bool {
	for _, t := range c.Tournaments {
		if t == tournament {
			return true
		}
	}
	return false
}

// Apply returns the games matching c, preserving order.
func Apply(games []snooker.Game, c Criteria) []snooker.Game {
	matched := make([]snooker.Game, 0, len(games))
	for _, g := range games {
		if c.Match(g) {
			matched = append(matched, g)
		}
	}
	return matched
}
