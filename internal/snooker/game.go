package snooker

import (
	"sort"
	"time"
)

// Game is one row of the "Game view" sheet.
type Game struct {
	Date        time.Time
	Tournament  string
	Player1     string
	Player2     string
	Player1Name string
	Player2Name string
	// Frames is the total number of frames played, zero when the cell was not numeric.
	Frames      float64
	Proportions map[Ball]float64
}

// Involves reports whether name played in the game.
func (g Game) Involves(name string) bool {
	return name != "" && (g.Player1Name == name || g.Player2Name == name)
}

// Dataset holds an ingested workbook.
type Dataset struct {
	Games []Game
	// Registry maps player ID to display name.
	Registry map[string]string
	// Source is the name of the file the dataset was read from.
	Source string
	// Skipped counts rows dropped because their date could not be read.
	Skipped int
}

// Tournaments returns every tournament once, in the order first seen.
func (d *Dataset) Tournaments() []string {
	seen := make(map[string]bool)
	tournaments := make([]string, 0)
	for _, g := range d.Games {
		if seen[g.Tournament] {
			continue
		}
		seen[g.Tournament] = true
		tournaments = append(tournaments, g.Tournament)
	}
	return tournaments
}

// PlayerNames returns the sorted set of resolved player names.
func (d *Dataset) PlayerNames() []string {
	seen := make(map[string]bool)
	for _, g := range d.Games {
		if g.Player1Name != "" {
			seen[g.Player1Name] = true
		}
		if g.Player2Name != "" {
			seen[g.Player2Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPlayer reports whether name appears in any game.
func (d *Dataset) HasPlayer(name string) bool {
	for _, g := range d.Games {
		if g.Involves(name) {
			return true
		}
	}
	return false
}

// DateSpan returns the earliest and latest game dates.
// Both are zero for an empty dataset.
func (d *Dataset) DateSpan() (time.Time, time.Time) {
	var first, last time.Time
	for i, g := range d.Games {
		if i == 0 || g.Date.Before(first) {
			first = g.Date
		}
		if i == 0 || g.Date.After(last) {
			last = g.Date
		}
	}
	return first, last
}
