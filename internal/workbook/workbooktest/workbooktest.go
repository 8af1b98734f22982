// Package workbooktest builds in-memory workbooks for tests.
package workbooktest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// GameHeader is the standard "Game view" header row.
var GameHeader = []any{"Date", "Tournament", "Player 1", "Player 2", "Total Frames",
	"Yellow", "Green", "Brown", "Blue", "Pink", "Black", "Baulk"}

// RegistryHeader is the standard "PlayerKeys" header row.
var RegistryHeader = []any{"ID", "Name"}

// Sheet is a named sheet with its rows, header first.
type Sheet struct {
	Name string
	Rows [][]any
}

// Build writes sheets into a new workbook and returns its bytes.
func Build(t testing.TB, sheets ...Sheet) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			addr, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.Name, addr, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// Standard builds a workbook with the usual header rows plus games and players.
func Standard(t testing.TB, games [][]any, players [][]any) *bytes.Buffer {
	t.Helper()
	return Build(t,
		Sheet{Name: "Game view", Rows: append([][]any{GameHeader}, games...)},
		Sheet{Name: "PlayerKeys", Rows: append([][]any{RegistryHeader}, players...)},
	)
}
