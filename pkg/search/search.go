// Package search defines name-search semantics shared by both taxonomy
// backends: match modes, scopes, fuzzy re-ranking, and deterministic
// result ordering. Everything here is pure with respect to its inputs;
// the backends only supply candidate supersets fetched with the
// patterns this package prescribes.
package search

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/gnames/gntaxa/pkg/rank"
)

// Scope selects which name fields a query matches against.
type Scope string

const (
	ScopeScientific Scope = "scientific"
	ScopeVernacular Scope = "vernacular"
)

// Match is the matching mode for candidate retrieval.
type Match string

const (
	// MatchAuto escalates exact → prefix → substring, stopping at the
	// first mode that yields any result. Modes are never combined.
	MatchAuto      Match = "auto"
	MatchExact     Match = "exact"
	MatchPrefix    Match = "prefix"
	MatchSubstring Match = "substring"
)

// Scorer computes a 0–1 similarity between a query and a candidate
// name. It is a pluggable capability; DefaultScorer is used unless the
// caller overrides it.
type Scorer func(query, candidate string) float64

// DefaultScorer scores with a Levenshtein-based similarity that gives a
// bonus to shared prefixes, which suits scientific binomials well.
func DefaultScorer(query, candidate string) float64 {
	return levenshtein.Match(
		strings.ToLower(query),
		strings.ToLower(candidate),
		levenshtein.NewParams(),
	)
}

// Query carries the full, validated search request.
type Query struct {
	// Text is the query string, trimmed.
	Text string

	// Scopes holds the name fields to match; never empty.
	Scopes map[Scope]bool

	// Mode is the matching mode, MatchAuto by default.
	Mode Match

	// Fuzzy enables similarity re-ranking of the candidate superset.
	Fuzzy bool

	// Threshold drops fuzzy candidates scoring below it.
	Threshold float64

	// Limit caps the number of returned results.
	Limit int

	// Ranks restricts candidates to the given rank levels; empty means
	// all ranks.
	Ranks []rank.Level

	// Score is the similarity function used when Fuzzy is set.
	Score Scorer
}

// Option mutates a Query during construction.
type Option func(*Query)

// OptScopes replaces the matched name fields.
func OptScopes(scopes ...Scope) Option {
	return func(q *Query) {
		if len(scopes) == 0 {
			return
		}
		q.Scopes = make(map[Scope]bool, len(scopes))
		for _, s := range scopes {
			q.Scopes[s] = true
		}
	}
}

// OptMatch sets the matching mode.
func OptMatch(m Match) Option {
	return func(q *Query) {
		switch m {
		case MatchAuto, MatchExact, MatchPrefix, MatchSubstring:
			q.Mode = m
		}
	}
}

// OptFuzzy toggles fuzzy re-ranking.
func OptFuzzy(fuzzy bool) Option {
	return func(q *Query) { q.Fuzzy = fuzzy }
}

// OptThreshold sets the minimum fuzzy score kept, clamped to [0, 1].
func OptThreshold(t float64) Option {
	return func(q *Query) {
		if t >= 0 && t <= 1 {
			q.Threshold = t
		}
	}
}

// OptLimit caps the result count; non-positive values are ignored.
func OptLimit(l int) Option {
	return func(q *Query) {
		if l > 0 {
			q.Limit = l
		}
	}
}

// OptRanks restricts candidates to specific rank levels.
func OptRanks(ranks ...rank.Level) Option {
	return func(q *Query) {
		for _, r := range ranks {
			if r.IsValid() {
				q.Ranks = append(q.Ranks, r)
			}
		}
	}
}

// OptScorer replaces the similarity function.
func OptScorer(s Scorer) Option {
	return func(q *Query) {
		if s != nil {
			q.Score = s
		}
	}
}

// New builds a Query with the package defaults: both scopes, auto mode,
// fuzzy on with threshold 0.8, limit 20, DefaultScorer.
func New(text string, opts ...Option) Query {
	q := Query{
		Text:      strings.TrimSpace(text),
		Scopes:    map[Scope]bool{ScopeScientific: true, ScopeVernacular: true},
		Mode:      MatchAuto,
		Fuzzy:     true,
		Threshold: 0.8,
		Limit:     20,
		Score:     DefaultScorer,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// Modes returns the retrieval modes to try in order: the escalation
// sequence for MatchAuto, or the single requested mode.
func (q Query) Modes() []Match {
	if q.Mode == MatchAuto {
		return []Match{MatchExact, MatchPrefix, MatchSubstring}
	}
	return []Match{q.Mode}
}

// SupersetLimit is how many candidates a backend should fetch before
// re-ranking: fuzzy queries over-fetch so near misses survive the SQL
// filter, non-fuzzy ones fetch exactly Limit.
func (q Query) SupersetLimit() int {
	if !q.Fuzzy {
		return q.Limit
	}
	if l := q.Limit * 5; l > 50 {
		return l
	}
	return 50
}

// LikePattern renders the query text as a LIKE pattern for a mode.
// Exact matching compares lowercased equality and uses the bare text.
// LIKE metacharacters in the text are escaped with a backslash, so
// statements using these patterns must declare ESCAPE '\'.
func LikePattern(mode Match, text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	switch mode {
	case MatchPrefix:
		return escapeLike(t) + "%"
	case MatchSubstring:
		return "%" + escapeLike(t) + "%"
	default:
		return t
	}
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`, `%`, `\%`, `_`, `\_`,
)

// escapeLike neutralizes % and _ in user text so they match literally.
func escapeLike(t string) string {
	return likeEscaper.Replace(t)
}
