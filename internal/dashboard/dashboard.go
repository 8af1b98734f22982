// Package dashboard assembles the two-player comparison shown on the main page.
package dashboard

import (
	"errors"
	"time"

	"snookerviz/internal/chart"
	"snookerviz/internal/filter"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"
)

var (
	// ErrNoPlayers is returned when the dataset has no named players.
	ErrNoPlayers = errors.New("dataset has no players")
	// ErrUnknownPlayer is returned when a requested player is not in the dataset.
	ErrUnknownPlayer = errors.New("unknown player")
)

// Query is the filter state of one dashboard render.
type Query struct {
	PlayerA string
	PlayerB string
	// Tournaments restricts the games; nil selects every tournament.
	Tournaments []string
	// UsePreset selects Preset; otherwise From and To bound the range,
	// zero values meaning the dataset's own first and last dates.
	UsePreset  bool
	Preset     filter.Preset
	From       time.Time
	To         time.Time
	Thresholds stats.Thresholds
}

// Panel is the chart data for one player.
type Panel struct {
	Summary     stats.Summary          `json:"summary"`
	Comparisons []stats.BallComparison `json:"comparisons"`
	Chart       chart.Spec             `json:"chart"`
}

// Comparison is the resolved dashboard view.
type Comparison struct {
	Criteria   filter.Criteria  `json:"criteria"`
	Thresholds stats.Thresholds `json:"thresholds"`
	Games      int              `json:"games"`
	A          Panel            `json:"a"`
	B          Panel            `json:"b"`
}

// DefaultPlayers fills in an empty selection. Player A defaults to the first
// name; player B defaults to the first name too, unless A already took it.
func DefaultPlayers(names []string, a, b string) (string, string) {
	if len(names) == 0 {
		return a, b
	}
	if a == "" {
		a = names[0]
	}
	if b == "" {
		b = names[0]
		if names[0] == a && len(names) > 1 {
			b = names[1]
		}
	}
	return a, b
}

// Criteria resolves q against ds into concrete filter criteria.
func Criteria(ds *snooker.Dataset, q Query, today time.Time) filter.Criteria {
	first, last := ds.DateSpan()
	c := filter.Criteria{Tournaments: q.Tournaments}
	if c.Tournaments == nil {
		c.Tournaments = ds.Tournaments()
	}
	if q.UsePreset {
		preset := q.Preset
		if preset == "" {
			preset = filter.Last3Months
		}
		c.From, c.To = preset.Range(today, first)
		return c
	}
	c.From, c.To = q.From, q.To
	if c.From.IsZero() {
		c.From = first
	}
	if c.To.IsZero() {
		c.To = last
	}
	return c
}

// Build computes both player panels for q.
func Build(ds *snooker.Dataset, q Query, today time.Time, opts chart.Options) (*Comparison, error) {
	names := ds.PlayerNames()
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}
	q.PlayerA, q.PlayerB = DefaultPlayers(names, q.PlayerA, q.PlayerB)
	if !ds.HasPlayer(q.PlayerA) || !ds.HasPlayer(q.PlayerB) {
		return nil, ErrUnknownPlayer
	}

	thresholds := q.Thresholds
	if thresholds == nil {
		thresholds = stats.DefaultThresholds()
	}

	criteria := Criteria(ds, q, today)
	games := filter.Apply(ds.Games, criteria)

	return &Comparison{
		Criteria:   criteria,
		Thresholds: thresholds,
		Games:      len(games),
		A:          panel(games, q.PlayerA, thresholds, opts),
		B:          panel(games, q.PlayerB, thresholds, opts),
	}, nil
}

func panel(games []snooker.Game, player string, t stats.Thresholds, opts chart.Options) Panel {
	summary := stats.ForPlayer(games, player)
	comparisons := stats.Compare(summary, t)
	return Panel{
		Summary:     summary,
		Comparisons: comparisons,
		Chart:       chart.Build(chart.Title(player, summary.Games, summary.Frames), comparisons, opts),
	}
}
