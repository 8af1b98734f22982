package snooker

import (
	"errors"
	"strings"
)

// Ball is one of the object colors tracked per game.
type Ball string

const (
	Yellow Ball = "Yellow"
	Green  Ball = "Green"
	Brown  Ball = "Brown"
	Blue   Ball = "Blue"
	Pink   Ball = "Pink"
	Black  Ball = "Black"
	// Baulk groups the colors spotted in the baulk area.
	Baulk Ball = "Baulk"
)

// Balls lists every tracked color in display order.
var Balls = []Ball{Yellow, Green, Brown, Blue, Pink, Black, Baulk}

// BelowThresholdHex is the bar color used when a proportion falls under its threshold.
const BelowThresholdHex = "#D3D3D3"

var ballHex = map[Ball]string{
	Yellow: "#FFFF00",
	Green:  "#008000",
	Brown:  "#8B4513",
	Blue:   "#0000FF",
	Pink:   "#FFC0CB",
	Black:  "#000000",
	Baulk:  "#7FFFD4",
}

// ErrUnknownBall is returned by ParseBall for names outside Balls.
var ErrUnknownBall = errors.New("unknown ball")

// ParseBall resolves a color name case-insensitively.
func ParseBall(s string) (Ball, error) {
	s = strings.TrimSpace(s)
	for _, b := range Balls {
		if strings.EqualFold(string(b), s) {
			return b, nil
		}
	}
	return "", ErrUnknownBall
}

// Hex returns the chart color of the ball.
func (b Ball) Hex() string {
	if hex, ok := ballHex[b]; ok {
		return hex
	}
	return "#000000"
}

// Key is the lowercase form used for rule variables and bias keys.
func (b Ball) Key() string {
	return strings.ToLower(string(b))
}
