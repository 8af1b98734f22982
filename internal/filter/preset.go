package filter

import (
	"errors"
	"time"
)

// Preset is a named date range ending today.
type Preset string

const (
	Last3Months Preset = "Last 3 Months"
	Last6Months Preset = "Last 6 Months"
	LastYear    Preset = "Last Year"
	Last2Years  Preset = "Last 2 Years"
	AllTime     Preset = "All Time"
)

// Presets lists the presets in menu order.
var Presets = []Preset{Last3Months, Last6Months, LastYear, Last2Years, AllTime}

var presetDays = map[Preset]int{
	Last3Months: 90,
	Last6Months: 180,
	LastYear:    365,
	Last2Years:  730,
}

// ErrUnknownPreset is returned by ParsePreset for names outside Presets.
var ErrUnknownPreset = errors.New("unknown preset range")

// ParsePreset resolves a preset by its display name.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPreset
}

// Range returns the inclusive [from, to] range of the preset.
// AllTime starts at earliest, the first game date of the dataset.
func (p Preset) Range(today, earliest time.Time) (time.Time, time.Time) {
	to := Day(today)
	if days, ok := presetDays[p]; ok {
		return to.AddDate(0, 0, -days), to
	}
	return Day(earliest), to
}
