// Package journal keeps an append-only JSONL trail of predictions in a
// rotating file.
package journal

import (
	"io"
	"log/slog"

	"snookerviz/internal/predict"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Journal writes each prediction as one JSON line. It implements
// predict.Recorder and is safe for concurrent use.
type Journal struct {
	out    io.WriteCloser
	logger *slog.Logger
}

// New creates a journal at file. The file is rotated at maxSize MB and up
// to maxBackups compressed copies are kept.
func New(file string, maxSize, maxBackups int) *Journal {
	return NewWithWriter(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	})
}

// NewWithWriter creates a journal over out.
func NewWithWriter(out io.WriteCloser) *Journal {
	handler := newLineHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Journal{
		out:    out,
		logger: slog.New(handler),
	}
}

// Record appends p to the journal.
func (j *Journal) Record(p predict.Prediction) {
	j.logger.Info("",
		"tournament", p.Matchup.Tournament,
		"player1", p.A.Name,
		"player2", p.B.Name,
		"scraped1", p.Matchup.Player1,
		"scraped2", p.Matchup.Player2,
		"games1", p.SummaryA.Games,
		"games2", p.SummaryB.Games,
		"bias", p.Bias,
		"leanings", p.Leanings,
	)
}

// Close flushes and closes the underlying file.
func (j *Journal) Close() error {
	return j.out.Close()
}
