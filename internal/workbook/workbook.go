// Package workbook reads the match statistics spreadsheet.
//
// The workbook must carry two sheets:
//
//	Game view   Date | Tournament | Player 1 | Player 2 | Total Frames | Yellow ... Baulk
//	PlayerKeys  ID | Name
//
// Numeric cells that fail to parse are read as zero.
package workbook

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"snookerviz/internal/snooker"

	"github.com/xuri/excelize/v2"
)

const (
	GameSheet     = "Game view"
	RegistrySheet = "PlayerKeys"

	ColDate        = "Date"
	ColTournament  = "Tournament"
	ColPlayer1     = "Player 1"
	ColPlayer2     = "Player 2"
	ColTotalFrames = "Total Frames"
	ColID          = "ID"
	ColName        = "Name"
)

// dateLayouts are tried in order; the sheet usually stores dates as YYYYMMDD numbers.
var dateLayouts = []string{"20060102", "2006-01-02"}

// LoadFile reads the workbook at path.
func LoadFile(path string) (*snooker.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, filepath.Base(path))
}

// Load reads a workbook from r. source names the dataset in logs and the UI.
func Load(r io.Reader, source string) (*snooker.Dataset, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	registry, err := readRegistry(book)
	if err != nil {
		return nil, err
	}

	rows, err := sheetRows(book, GameSheet)
	if err != nil {
		return nil, err
	}

	ds := &snooker.Dataset{
		Games:    make([]snooker.Game, 0, len(rows)),
		Registry: registry,
		Source:   source,
	}
	if len(rows) == 0 {
		return ds, nil
	}

	required := []string{ColDate, ColTournament, ColPlayer1, ColPlayer2, ColTotalFrames}
	for _, b := range snooker.Balls {
		required = append(required, string(b))
	}
	cols, err := columnIndex(GameSheet, rows[0], required)
	if err != nil {
		return nil, err
	}

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		date, ok := parseDate(cell(row, cols[ColDate]))
		if !ok {
			ds.Skipped++
			slog.Warn("Skipping game row with unreadable date", "source", source, "row", i+2, "date", cell(row, cols[ColDate]))
			continue
		}

		g := snooker.Game{
			Date:        date,
			Tournament:  cell(row, cols[ColTournament]),
			Player1:     normalizeID(cell(row, cols[ColPlayer1])),
			Player2:     normalizeID(cell(row, cols[ColPlayer2])),
			Frames:      coerce(cell(row, cols[ColTotalFrames])),
			Proportions: make(map[snooker.Ball]float64, len(snooker.Balls)),
		}
		g.Player1Name = registry[g.Player1]
		g.Player2Name = registry[g.Player2]
		for _, b := range snooker.Balls {
			g.Proportions[b] = coerce(cell(row, cols[string(b)]))
		}
		ds.Games = append(ds.Games, g)
	}

	slog.Info("Workbook loaded", "source", source, "games", len(ds.Games), "players", len(registry), "skipped", ds.Skipped)
	return ds, nil
}

func readRegistry(book *excelize.File) (map[string]string, error) {
	rows, err := sheetRows(book, RegistrySheet)
	if err != nil {
		return nil, err
	}
	registry := make(map[string]string)
	if len(rows) == 0 {
		return registry, nil
	}
	cols, err := columnIndex(RegistrySheet, rows[0], []string{ColID, ColName})
	if err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		id := normalizeID(cell(row, cols[ColID]))
		if id == "" {
			continue
		}
		registry[id] = cell(row, cols[ColName])
	}
	return registry, nil
}

func sheetRows(book *excelize.File, sheet string) ([][]string, error) {
	found := false
	for _, name := range book.GetSheetList() {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, NewMissingSheetError(sheet)
	}
	// stored values, not the display text of the cell number format
	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func columnIndex(sheet string, header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, NewMissingColumnError(sheet, col)
		}
	}
	return index, nil
}

// cell returns the trimmed value at i; excelize drops trailing empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// coerce parses a numeric cell, returning 0 for anything unreadable,
// including NaN and infinities.
func coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// normalizeID maps "12", "12.0" and " 12 " to the same key.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return s
}

// maxExcelSerial is the serial number of 9999-12-31, the last Excel date.
const maxExcelSerial = 2958465

// parseDate reads YYYYMMDD numbers, ISO dates and, failing those, Excel
// date serials from cells formatted as dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	v, numErr := strconv.ParseFloat(s, 64)
	if numErr == nil && v == float64(int64(v)) {
		s = strconv.FormatInt(int64(v), 10)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if numErr == nil && v >= 1 && v <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			t = t.Round(time.Minute)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
