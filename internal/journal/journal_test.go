package journal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snookerviz/internal/fuzzy"
	"snookerviz/internal/predict"
	"snookerviz/internal/scrape"
	"snookerviz/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prediction() predict.Prediction {
	return predict.Prediction{
		Matchup:  scrape.Matchup{Tournament: "Wuhan Open", Player1: "Trump Judd", Player2: "Mark Selby"},
		A:        fuzzy.Match{Query: "Trump Judd", Name: "Judd Trump", Score: 100},
		B:        fuzzy.Match{Query: "Mark Selby", Name: "Mark Selby", Score: 100},
		SummaryA: stats.Summary{Games: 4},
		SummaryB: stats.Summary{Games: 2},
		Bias:     predict.Bias{"black": 0.25},
		Leanings: map[string]string{"black": predict.LeanOver},
	}
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestJournal_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.jsonl")
	j := New(path, 1, 1)

	j.Record(prediction())
	j.Record(prediction())
	require.NoError(t, j.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)

	line := lines[0]
	assert.Equal(t, "Wuhan Open", line["tournament"])
	assert.Equal(t, "Judd Trump", line["player1"])
	assert.Equal(t, "Trump Judd", line["scraped1"])
	assert.Equal(t, float64(4), line["games1"])
	assert.Equal(t, map[string]any{"black": 0.25}, line["bias"])
	assert.Equal(t, map[string]any{"black": "over"}, line["leanings"])
	assert.NotContains(t, line, "level")
	assert.NotContains(t, line, "msg")

	_, err := time.Parse(TimeLayout, line["time"].(string))
	assert.NoError(t, err)
}

func TestJournal_ImplementsRecorder(t *testing.T) {
	var _ predict.Recorder = (*Journal)(nil)
}

func TestLineHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLineHandler(&buf, nil)).
		With("run", "nightly").
		WithGroup("m").
		With("id", 7)

	logger.Info("ignored", "score", 0.5, slog.Group("player", "name", "Judd Trump"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "nightly", line["run"])
	assert.Equal(t, float64(7), line["m.id"])
	assert.Equal(t, 0.5, line["m.score"])
	assert.Equal(t, "Judd Trump", line["m.player.name"])
}

func TestLineHandler_Enabled(t *testing.T) {
	h := newLineHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	assert.True(t, newLineHandler(&bytes.Buffer{}, nil).Enabled(context.Background(), slog.LevelInfo))
}
