package filter

import (
	"testing"
	"time"

	"snookerviz/internal/snooker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func games() []snooker.Game {
	return []snooker.Game{
		{Date: day(2024, 1, 1), Tournament: "Masters"},
		{Date: day(2024, 1, 15), Tournament: "Masters"},
		{Date: day(2024, 1, 31), Tournament: "Welsh Open"},
		{Date: day(2024, 2, 1), Tournament: "Masters"},
	}
}

func TestApply_InclusiveBounds(t *testing.T) {
	c := Criteria{
		Tournaments: []string{"Masters", "Welsh Open"},
		From:        day(2024, 1, 1),
		To:          day(2024, 1, 31),
	}

	got := Apply(games(), c)
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 1), got[0].Date)
	assert.Equal(t, day(2024, 1, 31), got[2].Date)
}

func TestApply_BoundsIgnoreTimeOfDay(t *testing.T) {
	c := Criteria{
		Tournaments: []string{"Masters"},
		From:        time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC),
		To:          time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}

	got := Apply(games(), c)
	require.Len(t, got, 2)
	assert.Equal(t, day(2024, 1, 15), got[0].Date)
	assert.Equal(t, day(2024, 2, 1), got[1].Date)
}

func TestApply_TournamentSet(t *testing.T) {
	c := Criteria{
		Tournaments: []string{"Welsh Open"},
		From:        day(2000, 1, 1),
		To:          day(2100, 1, 1),
	}
	got := Apply(games(), c)
	require.Len(t, got, 1)
	assert.Equal(t, "Welsh Open", got[0].Tournament)

	c.Tournaments = nil
	assert.Empty(t, Apply(games(), c))
}

func TestPreset_Range(t *testing.T) {
	today := time.Date(2024, 6, 30, 15, 4, 5, 0, time.UTC)
	earliest := day(2019, 3, 2)

	from, to := Last3Months.Range(today, earliest)
	assert.Equal(t, day(2024, 4, 1), from)
	assert.Equal(t, day(2024, 6, 30), to)

	from, _ = LastYear.Range(today, earliest)
	assert.Equal(t, day(2023, 7, 1), from)

	from, _ = Last2Years.Range(today, earliest)
	assert.Equal(t, day(2022, 7, 1), from)

	from, to = AllTime.Range(today, earliest)
	assert.Equal(t, earliest, from)
	assert.Equal(t, day(2024, 6, 30), to)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("Last 6 Months")
	require.NoError(t, err)
	assert.Equal(t, Last6Months, p)

	_, err = ParsePreset("Last Week")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
