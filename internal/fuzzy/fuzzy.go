// Package fuzzy scores how closely two player names match on a 0..100 scale.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio is the edit-distance similarity of a and b, 100 meaning identical.
func Ratio(a, b string) int {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// TokenSortRatio compares the names after lowercasing, dropping punctuation
// and sorting the words, so "O'Sullivan, Ronnie" equals "Ronnie O'Sullivan".
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// Score is the better of the plain and token-sorted ratios.
func Score(a, b string) int {
	return max(Ratio(strings.ToLower(a), strings.ToLower(b)), TokenSortRatio(a, b))
}

func sortedTokens(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Match is the best candidate found for a name.
type Match struct {
	Query string `json:"query"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Matcher resolves free-form names against a fixed list of known names.
type Matcher struct {
	names []string
}

// NewMatcher creates a matcher over names.
func NewMatcher(names []string) *Matcher {
	return &Matcher{names: names}
}

// Best returns the highest scoring known name; ties keep the earlier one.
// It reports false when there are no known names.
func (m *Matcher) Best(query string) (Match, bool) {
	best := Match{Query: query, Score: -1}
	for _, name := range m.names {
		if s := Score(query, name); s > best.Score {
			best.Name, best.Score = name, s
		}
	}
	if best.Score < 0 {
		return Match{Query: query}, false
	}
	return best, true
}
