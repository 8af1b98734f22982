package workbook

import (
	"testing"
	"time"

	"snookerviz/internal/snooker"
	"snookerviz/internal/workbook/workbooktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func players() [][]any {
	return [][]any{
		{1, "Judd Trump"},
		{2, "Mark Selby"},
		{3, "Mark Allen"},
	}
}

func TestLoad(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{20240115, "Masters", 1, 2, 11, 0.1, 0.12, 0.1, 0.3, 0.11, 0.4, 0.32},
		{20240302, "Welsh Open", 2, 3, 9, 0.2, 0.1, 0.09, 0.25, 0.15, 0.33, 0.29},
	}, players())

	ds, err := Load(buf, "stats.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "stats.xlsx", ds.Source)
	require.Len(t, ds.Games, 2)
	g := ds.Games[0]
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), g.Date)
	assert.Equal(t, "Masters", g.Tournament)
	assert.Equal(t, "1", g.Player1)
	assert.Equal(t, "Judd Trump", g.Player1Name)
	assert.Equal(t, "Mark Selby", g.Player2Name)
	assert.Equal(t, 11.0, g.Frames)
	assert.InDelta(t, 0.4, g.Proportions[snooker.Black], 1e-9)
	assert.InDelta(t, 0.32, g.Proportions[snooker.Baulk], 1e-9)
	assert.Equal(t, []string{"Judd Trump", "Mark Allen", "Mark Selby"}, ds.PlayerNames())
}

func TestLoad_CoercesBadNumbersToZero(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{20240115, "Masters", 1, 2, "n/a", "x", 0.12, "", 0.3, 0.11, 0.4, 0.32},
	}, players())

	ds, err := Load(buf, "stats.xlsx")
	require.NoError(t, err)
	require.Len(t, ds.Games, 1)

	g := ds.Games[0]
	assert.Equal(t, 0.0, g.Frames)
	assert.Equal(t, 0.0, g.Proportions[snooker.Yellow])
	assert.Equal(t, 0.0, g.Proportions[snooker.Brown])
	assert.InDelta(t, 0.12, g.Proportions[snooker.Green], 1e-9)
}

func TestLoad_NonFiniteNumbersReadAsZero(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{20240115, "Masters", 1, 2, "inf", "NaN", "-Infinity", 0.1, 0.1, 0.1, 0.1, 0.1},
	}, players())

	ds, err := Load(buf, "stats.xlsx")
	require.NoError(t, err)
	require.Len(t, ds.Games, 1)

	g := ds.Games[0]
	assert.Equal(t, 0.0, g.Frames)
	assert.Equal(t, 0.0, g.Proportions[snooker.Yellow])
	assert.Equal(t, 0.0, g.Proportions[snooker.Green])
	assert.InDelta(t, 0.1, g.Proportions[snooker.Brown], 1e-9)
}

func TestLoad_ReadsStoredValuesOfFormattedCells(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{20240115, "Masters", 1, 2, 9, 0.1234, 0.1266, 0.1, 0.1, 0.1, 0.1, 0.1},
	}, players())

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	percent, err := book.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	twoPlaces, err := book.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)
	require.NoError(t, book.SetCellStyle(GameSheet, "F2", "F2", percent))
	require.NoError(t, book.SetCellStyle(GameSheet, "G2", "G2", twoPlaces))
	require.NoError(t, book.SetCellValue(GameSheet, "A2", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
	out, err := book.WriteToBuffer()
	require.NoError(t, err)

	ds, err := Load(out, "stats.xlsx")
	require.NoError(t, err)
	require.Len(t, ds.Games, 1)

	g := ds.Games[0]
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), g.Date)
	assert.InDelta(t, 0.1234, g.Proportions[snooker.Yellow], 1e-9)
	assert.InDelta(t, 0.1266, g.Proportions[snooker.Green], 1e-9)
}

func TestLoad_UnknownPlayerHasNoName(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{20240115, "Masters", 1, 99, 5, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	}, players())

	ds, err := Load(buf, "stats.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "", ds.Games[0].Player2Name)
	assert.Equal(t, []string{"Judd Trump"}, ds.PlayerNames())
}

func TestLoad_SkipsUnreadableDates(t *testing.T) {
	buf := workbooktest.Standard(t, [][]any{
		{"someday", "Masters", 1, 2, 5, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{"2024-02-01", "Masters", 1, 2, 5, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{},
	}, players())

	ds, err := Load(buf, "stats.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Skipped)
	require.Len(t, ds.Games, 1)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ds.Games[0].Date)
}

func TestLoad_MissingSheet(t *testing.T) {
	buf := workbooktest.Build(t, workbooktest.Sheet{
		Name: GameSheet,
		Rows: [][]any{workbooktest.GameHeader},
	})

	_, err := Load(buf, "stats.xlsx")
	var missing *MissingSheetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, RegistrySheet, missing.Sheet)
}

func TestLoad_MissingColumn(t *testing.T) {
	buf := workbooktest.Build(t,
		workbooktest.Sheet{Name: GameSheet, Rows: [][]any{{"Date", "Tournament", "Player 1", "Player 2"}}},
		workbooktest.Sheet{Name: RegistrySheet, Rows: [][]any{workbooktest.RegistryHeader}},
	)

	_, err := Load(buf, "stats.xlsx")
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ColTotalFrames, missing.Column)
	assert.Contains(t, err.Error(), "Game view")
}

func TestLoad_NotAWorkbook(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.xlsx")
	assert.Error(t, err)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "12", normalizeID("12"))
	assert.Equal(t, "12", normalizeID("12.0"))
	assert.Equal(t, "12", normalizeID(" 12 "))
	assert.Equal(t, "P12", normalizeID("P12"))
}

func TestParseDate(t *testing.T) {
	d, ok := parseDate("20240115")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseDate("20240115.0")
	assert.True(t, ok)
	assert.Equal(t, 15, d.Day())

	d, ok = parseDate("45353")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), d)

	_, ok = parseDate("")
	assert.False(t, ok)
}
