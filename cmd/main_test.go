package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snookerviz/internal/filter"
	"snookerviz/internal/stats"
	"snookerviz/internal/workbook/workbooktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	now := time.Now().UTC()
	recent := now.AddDate(0, 0, -10).Format("20060102")
	older := now.AddDate(0, 0, -20).Format("20060102")
	buf := workbooktest.Standard(t, [][]any{
		{recent, "Masters", 1, 2, 10, 0.1, 0.12, 0.1, 0.3, 0.11, 0.4, 0.32},
		{older, "Welsh Open", 2, 3, 8, 0.2, 0.1, 0.09, 0.25, 0.15, 0.33, 0.29},
	}, [][]any{{1, "Judd Trump"}, {2, "Mark Selby"}, {3, "Mark Allen"}})

	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayersCmd(t *testing.T) {
	out, err := run(t, "players", "--workbook", writeWorkbook(t))
	require.NoError(t, err)

	assert.Contains(t, out, "stats.xlsx: 2 games")
	assert.Contains(t, out, "Judd Trump")
	assert.Contains(t, out, "Welsh Open")
}

func TestCompareCmd(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "compare", "--workbook", writeWorkbook(t), "--a", "Judd Trump", "--b", "Mark Selby", "--out", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "2 games")
	assert.Contains(t, out, "Black")
	for _, slot := range []string{"a", "b"} {
		svg, err := os.ReadFile(filepath.Join(outDir, slot+".svg"))
		require.NoError(t, err)
		assert.Contains(t, string(svg), "<svg")
	}
}

func TestCompareCmd_UnknownPlayer(t *testing.T) {
	_, err := run(t, "compare", "--workbook", writeWorkbook(t), "--a", "Nobody")
	assert.Error(t, err)
}

func TestCompareCmd_MissingWorkbookFlag(t *testing.T) {
	_, err := run(t, "compare")
	assert.ErrorContains(t, err, "workbook")
}

func TestQueryFlags(t *testing.T) {
	qf := queryFlags{preset: string(filter.AllTime)}
	q, err := qf.query(stats.DefaultThresholds())
	require.NoError(t, err)
	assert.True(t, q.UsePreset)
	assert.Equal(t, filter.AllTime, q.Preset)
	assert.Nil(t, q.Tournaments)

	qf = queryFlags{preset: string(filter.AllTime), from: "2024-01-01"}
	q, err = qf.query(nil)
	require.NoError(t, err)
	assert.False(t, q.UsePreset)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.From)
	assert.True(t, q.To.IsZero())

	_, err = (&queryFlags{preset: "Forever"}).query(nil)
	assert.ErrorIs(t, err, filter.ErrUnknownPreset)

	_, err = (&queryFlags{to: "31/12/2024"}).query(nil)
	assert.Error(t, err)
}
