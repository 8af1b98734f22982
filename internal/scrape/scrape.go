// Package scrape reads upcoming matchups from the tournament listing page.
//
// The page is not a stable contract: rows are located with CSS class
// heuristics that can be overridden in configuration.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultURL       = "https://www.snooker.org/res/index.asp?template=24"
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119 Safari/537.36 (+snookerviz)"
)

// Matchup is a scheduled game between two scraped player names.
type Matchup struct {
	Tournament string `json:"tournament"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Scheduled  string `json:"scheduled"`
}

// Selectors locate the parts of the listing page.
type Selectors struct {
	// Event matches a heading row; its text names the following matchups' tournament.
	Event string `mapstructure:"event"`
	// Row matches one matchup row.
	Row string `mapstructure:"row"`
	// Player matches the player cells inside a row; the first two are used.
	Player string `mapstructure:"player"`
	// Scheduled matches the start time cell inside a row.
	Scheduled string `mapstructure:"scheduled"`
}

// DefaultSelectors matches the current snooker.org markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Event:     "tr.eventname",
		Row:       "tr.oneonone",
		Player:    "td.player",
		Scheduled: "td.scheduled",
	}
}

// StatusError reports a non-200 response from the listing page.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d for %s", e.Status, e.URL)
}

// NewStatusError creates a StatusError.
func NewStatusError(url string, status int) *StatusError {
	return &StatusError{URL: url, Status: status}
}

// Client fetches and parses the listing page.
type Client struct {
	url       string
	userAgent string
	selectors Selectors
	client    *http.Client
}

// NewClient creates a client for url. A zero timeout waits indefinitely.
func NewClient(url, userAgent string, timeout time.Duration, selectors Selectors) *Client {
	if url == "" {
		url = DefaultURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		url:       url,
		userAgent: userAgent,
		selectors: selectors,
		client:    &http.Client{Timeout: timeout},
	}
}

// Upcoming fetches the page and returns its matchups.
func (c *Client) Upcoming(ctx context.Context) ([]Matchup, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch upcoming matches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusError(c.url, resp.StatusCode)
	}

	matchups, err := Parse(resp.Body, c.selectors)
	if err != nil {
		return nil, err
	}
	slog.Debug("Upcoming matches scraped", "url", c.url, "matchups", len(matchups))
	return matchups, nil
}

var (
	seeding    = regexp.MustCompile(`\s*[\[(]\s*\d+\s*[\])]\s*`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Parse extracts matchups from a listing page.
func Parse(r io.Reader, sel Selectors) ([]Matchup, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse upcoming matches: %w", err)
	}

	matchups := make([]Matchup, 0)
	tournament := ""
	doc.Find(sel.Event + ", " + sel.Row).Each(func(_ int, s *goquery.Selection) {
		if s.Is(sel.Event) {
			tournament = clean(s.Text())
			return
		}

		var names []string
		s.Find(sel.Player).EachWithBreak(func(_ int, p *goquery.Selection) bool {
			names = append(names, PlayerName(p.Text()))
			return len(names) < 2
		})
		if len(names) < 2 || placeholder(names[0]) || placeholder(names[1]) {
			return
		}

		matchups = append(matchups, Matchup{
			Tournament: tournament,
			Player1:    names[0],
			Player2:    names[1],
			Scheduled:  clean(s.Find(sel.Scheduled).First().Text()),
		})
	})
	return matchups, nil
}

// PlayerName strips seeding marks and extra whitespace from a scraped name.
func PlayerName(s string) string {
	return clean(seeding.ReplaceAllString(s, " "))
}

func clean(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func placeholder(name string) bool {
	switch strings.ToUpper(name) {
	case "", "TBD", "TBA", "?":
		return true
	}
	return false
}

// Tournaments returns the tournaments of ms once each, in order.
func Tournaments(ms []Matchup) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, m := range ms {
		if !seen[m.Tournament] {
			seen[m.Tournament] = true
			out = append(out, m.Tournament)
		}
	}
	return out
}
