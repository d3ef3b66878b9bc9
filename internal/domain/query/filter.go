package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/team"
)

// ErrInvalidQuery is returned for unknown statistics, groupings or modes and
// for out-of-range parameters.
var ErrInvalidQuery = errors.New("invalid query")

const (
	DefaultMinGames = 1
	DefaultStat     = "disposals"
)

// FilterState is the set of interactive filter parameters. It is a value:
// changing a filter means building a new state.
type FilterState struct {
	Team     string `json:"team,omitempty"`
	Season   int    `json:"season,omitempty"`
	MinGames int    `json:"min_games"`
	Stat     string `json:"stat"`
	Position string `json:"position,omitempty"`
}

func DefaultFilter() FilterState {
	return FilterState{MinGames: DefaultMinGames, Stat: DefaultStat}
}

// Normalize fills defaults, canonicalises the team name and validates the
// remaining fields.
func (s FilterState) Normalize() (FilterState, error) {
	out := s
	out.Team = strings.TrimSpace(out.Team)
	if out.Team != "" {
		out.Team = team.Canonical(out.Team)
	}
	out.Position = strings.TrimSpace(out.Position)

	if out.Season < 0 {
		return FilterState{}, fmt.Errorf("%w: season must not be negative", ErrInvalidQuery)
	}
	if out.MinGames < 0 {
		return FilterState{}, fmt.Errorf("%w: min games must not be negative", ErrInvalidQuery)
	}
	if out.MinGames == 0 {
		out.MinGames = DefaultMinGames
	}

	if strings.TrimSpace(out.Stat) == "" {
		out.Stat = DefaultStat
	}
	metric, ok := fact.LookupMetric(out.Stat)
	if !ok {
		return FilterState{}, fmt.Errorf("%w: unknown statistic %q", ErrInvalidQuery, out.Stat)
	}
	out.Stat = metric.Key
	return out, nil
}

// ApplyFilter returns the facts of ds that pass state, in dataset order.
// Games played is taken from the whole dataset so the other filters never
// change who qualifies under MinGames.
func ApplyFilter(ds *fact.Dataset, state FilterState) []fact.Fact {
	facts := ds.Facts()
	out := make([]fact.Fact, 0, len(facts))

	wantTeam := ""
	if state.Team != "" {
		wantTeam = team.Canonical(state.Team)
	}
	minGames := state.MinGames
	if minGames <= 0 {
		minGames = DefaultMinGames
	}

	for i := range facts {
		f := &facts[i]
		if wantTeam != "" && !strings.EqualFold(f.Team, wantTeam) {
			continue
		}
		if state.Season > 0 && f.Season != state.Season {
			continue
		}
		if state.Position != "" && !strings.EqualFold(f.Position, state.Position) {
			continue
		}
		if ds.GamesPlayed(f.PlayerKey) < minGames {
			continue
		}
		out = append(out, *f)
	}
	return out
}
