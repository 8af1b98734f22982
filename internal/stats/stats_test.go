package stats

import (
	"testing"

	"snookerviz/internal/snooker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(p1, p2 string, frames float64, black, pink float64) snooker.Game {
	return snooker.Game{
		Player1Name: p1,
		Player2Name: p2,
		Frames:      frames,
		Proportions: map[snooker.Ball]float64{
			snooker.Black: black,
			snooker.Pink:  pink,
		},
	}
}

func TestForPlayer_WeightedAverage(t *testing.T) {
	games := []snooker.Game{
		game("Trump", "Selby", 10, 0.5, 0.1),
		game("Allen", "Trump", 5, 0.2, 0.4),
		game("Allen", "Selby", 20, 0.9, 0.9),
	}

	s := ForPlayer(games, "Trump")
	assert.Equal(t, 2, s.Games)
	assert.Equal(t, 15, s.Frames)
	assert.InDelta(t, (0.5*10+0.2*5)/15, s.Averages[snooker.Black], 1e-12)
	assert.InDelta(t, (0.1*10+0.4*5)/15, s.Averages[snooker.Pink], 1e-12)
	assert.Equal(t, 0.0, s.Averages[snooker.Yellow])
	assert.Len(t, s.Averages, len(snooker.Balls))
}

func TestForPlayer_ZeroFrames(t *testing.T) {
	games := []snooker.Game{
		game("Trump", "Selby", 0, 0.5, 0.1),
		game("Trump", "Allen", 0, 0.7, 0.3),
	}

	s := ForPlayer(games, "Trump")
	assert.Equal(t, 2, s.Games)
	assert.Equal(t, 0, s.Frames)
	for _, b := range snooker.Balls {
		assert.Equal(t, 0.0, s.Averages[b], "ball %s", b)
	}
}

func TestForPlayer_NoGames(t *testing.T) {
	s := ForPlayer(nil, "Nobody")
	assert.Equal(t, 0, s.Games)
	assert.Equal(t, 0.0, s.Averages[snooker.Black])
}

func TestForPlayer_FractionalFramesTruncateTotal(t *testing.T) {
	games := []snooker.Game{
		game("Trump", "Selby", 2.5, 0.4, 0),
		game("Trump", "Selby", 1, 0.1, 0),
	}
	s := ForPlayer(games, "Trump")
	assert.Equal(t, 3, s.Frames)
	assert.InDelta(t, (0.4*2.5+0.1)/3.5, s.Averages[snooker.Black], 1e-12)
}

func TestPool(t *testing.T) {
	games := []snooker.Game{
		game("Trump", "Selby", 10, 0.5, 0),
		game("Allen", "Higgins", 30, 0.1, 0),
	}
	pooled := Pool(ForPlayer(games, "Trump"), ForPlayer(games, "Allen"))
	assert.Equal(t, 2, pooled.Games)
	assert.Equal(t, 40, pooled.Frames)
	assert.InDelta(t, (0.5*10+0.1*30)/40, pooled.Averages[snooker.Black], 1e-12)
}

func TestCompare(t *testing.T) {
	s := Summary{Averages: map[snooker.Ball]float64{
		snooker.Black: 0.4,
		snooker.Blue:  0.2,
	}}
	th := DefaultThresholds()

	cmp := Compare(s, th)
	require.Len(t, cmp, len(snooker.Balls))

	black := cmp[5]
	assert.Equal(t, snooker.Black, black.Ball)
	assert.InDelta(t, (0.4-0.357)/0.357*100, black.PercentDiff, 1e-9)
	assert.Equal(t, "+12.0%", black.Label)
	assert.Equal(t, "green", black.LabelColor)
	assert.Equal(t, "#000000", black.BarColor)

	blue := cmp[3]
	assert.Equal(t, snooker.Blue, blue.Ball)
	assert.True(t, blue.Below())
	assert.Equal(t, "-35.1%", blue.Label)
	assert.Equal(t, "red", blue.LabelColor)
	assert.Equal(t, snooker.BelowThresholdHex, blue.BarColor)
}

func TestCompare_ZeroThreshold(t *testing.T) {
	s := Summary{Averages: map[snooker.Ball]float64{snooker.Yellow: 0.2}}
	th := Thresholds{}
	th.Set(snooker.Yellow, 0)

	cmp := Compare(s, th)
	assert.Equal(t, "n/a", cmp[0].Label)
	assert.Equal(t, 0.0, cmp[0].PercentDiff)
	assert.Equal(t, snooker.Yellow.Hex(), cmp[0].BarColor)
}

func TestThresholds_SetClamps(t *testing.T) {
	th := DefaultThresholds().Clone()
	th.Set(snooker.Pink, 1.7)
	th.Set(snooker.Blue, -0.2)
	assert.Equal(t, 1.0, th[snooker.Pink])
	assert.Equal(t, 0.0, th[snooker.Blue])
	assert.Equal(t, 0.118, DefaultThresholds()[snooker.Pink])
}
