package predict

import (
	"context"
	"fmt"
	"log/slog"

	"snookerviz/internal/filter"
	"snookerviz/internal/fuzzy"
	"snookerviz/internal/scrape"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

// ScrapeFailedMessage is shown in place of matchups when the listing page cannot be read.
const ScrapeFailedMessage = "Unable to load upcoming matches right now. Please try again later."

// Fetcher lists upcoming matchups.
type Fetcher interface {
	Upcoming(ctx context.Context) ([]scrape.Matchup, error)
}

// Recorder keeps a trail of produced predictions.
type Recorder interface {
	Record(p Prediction)
}

// Request scopes one prediction run.
type Request struct {
	Dataset    *snooker.Dataset
	Criteria   filter.Criteria
	Thresholds stats.Thresholds
	// Tournament keeps only matchups of one scraped tournament when set.
	Tournament string
}

// Prediction is the scored outcome of one matchup.
type Prediction struct {
	Matchup  scrape.Matchup    `json:"matchup"`
	A        fuzzy.Match       `json:"a"`
	B        fuzzy.Match       `json:"b"`
	SummaryA stats.Summary     `json:"summaryA"`
	SummaryB stats.Summary     `json:"summaryB"`
	Bias     Bias              `json:"bias"`
	Leanings map[string]string `json:"leanings"`
}

// Report is the result of a prediction run.
type Report struct {
	Tournaments []string     `json:"tournaments"`
	Predictions []Prediction `json:"predictions"`
	Warnings    []string     `json:"warnings"`
	// Error is a user-facing message set when the matchups could not be fetched.
	Error string `json:"error,omitempty"`
}

// Service turns scraped matchups into predictions over a dataset.
type Service struct {
	fetcher  Fetcher
	scorer   Scorer
	recorder Recorder
	minScore int
	margin   float64
}

// NewService creates a prediction service. Names matching below minScore are
// rejected; margin is the bias needed to call a leaning. recorder may be nil.
func NewService(fetcher Fetcher, scorer Scorer, recorder Recorder, minScore int, margin float64) *Service {
	return &Service{
		fetcher:  fetcher,
		scorer:   scorer,
		recorder: recorder,
		minScore: minScore,
		margin:   margin,
	}
}

// Predict fetches the matchups and scores each one whose players resolve.
func (s *Service) Predict(ctx context.Context, req Request) Report {
	report := Report{
		Tournaments: []string{},
		Predictions: []Prediction{},
		Warnings:    []string{},
	}

	matchups, err := s.fetcher.Upcoming(ctx)
	if err != nil {
		slog.Error("Unable to fetch upcoming matches", "error", err)
		report.Error = ScrapeFailedMessage
		return report
	}
	report.Tournaments = scrape.Tournaments(matchups)

	matcher := fuzzy.NewMatcher(req.Dataset.PlayerNames())
	games := filter.Apply(req.Dataset.Games, req.Criteria)

	for _, m := range matchups {
		if req.Tournament != "" && m.Tournament != req.Tournament {
			continue
		}

		a, okA := s.resolve(matcher, m.Player1)
		b, okB := s.resolve(matcher, m.Player2)
		if !okA || !okB {
			report.Warnings = append(report.Warnings, s.warning(m, a, okA, b))
			continue
		}

		f := NewFeatures(stats.ForPlayer(games, a.Name), stats.ForPlayer(games, b.Name), req.Thresholds)
		bias, err := s.scorer.Score(ctx, f)
		if err != nil {
			slog.Warn("Unable to score matchup", "player1", m.Player1, "player2", m.Player2, "error", err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s v %s: could not be scored", m.Player1, m.Player2))
			continue
		}

		p := Prediction{
			Matchup:  m,
			A:        a,
			B:        b,
			SummaryA: f.A,
			SummaryB: f.B,
			Bias:     bias,
			Leanings: make(map[string]string, len(bias)),
		}
		for k, v := range bias {
			p.Leanings[k] = Leaning(v, s.margin)
		}
		if s.recorder != nil {
			s.recorder.Record(p)
		}
		report.Predictions = append(report.Predictions, p)
	}
	return report
}

func (s *Service) resolve(m *fuzzy.Matcher, name string) (fuzzy.Match, bool) {
	match, ok := m.Best(name)
	return match, ok && match.Score >= s.minScore
}

func (s *Service) warning(m scrape.Matchup, a fuzzy.Match, okA bool, b fuzzy.Match) string {
	miss := a
	if okA {
		miss = b
	}
	slog.Warn("Matchup skipped, no confident player match",
		"player1", m.Player1, "player2", m.Player2, "query", miss.Query, "best", miss.Name, "score", miss.Score)
	if miss.Name == "" {
		return fmt.Sprintf("%s v %s: no known player to match %q", m.Player1, m.Player2, miss.Query)
	}
	return fmt.Sprintf("%s v %s: no confident match for %q (best %q at %d)", m.Player1, m.Player2, miss.Query, miss.Name, miss.Score)
}
