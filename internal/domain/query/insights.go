package query

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

const (
	DefaultDroughtMinGames     = 5
	DefaultConsistencyMinGames = 10

	pointsWin  = 4
	pointsDraw = 2
)

// LadderRow is one team's standing.
type LadderRow struct {
	Team          string  `json:"team"`
	Played        int     `json:"played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	Percentage    float64 `json:"percentage"`
	Points        int     `json:"points"`
}

type matchScore struct {
	teams  []string
	scores map[string]float64
}

// Ladder builds standings for season from player lines: each side scores six
// per goal plus behinds. A season of zero uses the latest season present.
// Matches where only one side has facts are skipped.
func Ladder(facts []fact.Fact, season int) []LadderRow {
	if season <= 0 {
		for i := range facts {
			if facts[i].Season > season {
				season = facts[i].Season
			}
		}
	}

	matches := make(map[string]*matchScore)
	order := make([]string, 0, 64)
	for i := range facts {
		f := &facts[i]
		if f.Season != season {
			continue
		}
		key := f.MatchKey()
		m, ok := matches[key]
		if !ok {
			m = &matchScore{scores: make(map[string]float64, 2)}
			matches[key] = m
			order = append(order, key)
		}
		if _, seen := m.scores[f.Team]; !seen {
			m.teams = append(m.teams, f.Team)
		}
		goals := f.Stat(playerstats.Goals).Or(0)
		behinds := f.Stat(playerstats.Behinds).Or(0)
		m.scores[f.Team] += goals*6 + behinds
	}

	table := make(map[string]*LadderRow)
	row := func(name string) *LadderRow {
		r, ok := table[name]
		if !ok {
			r = &LadderRow{Team: name}
			table[name] = r
		}
		return r
	}

	for _, key := range order {
		m := matches[key]
		if len(m.teams) != 2 {
			continue
		}
		a, b := row(m.teams[0]), row(m.teams[1])
		sa, sb := m.scores[m.teams[0]], m.scores[m.teams[1]]
		a.Played++
		b.Played++
		a.PointsFor += sa
		a.PointsAgainst += sb
		b.PointsFor += sb
		b.PointsAgainst += sa
		switch {
		case sa > sb:
			a.Wins++
			a.Points += pointsWin
			b.Losses++
		case sb > sa:
			b.Wins++
			b.Points += pointsWin
			a.Losses++
		default:
			a.Draws++
			b.Draws++
			a.Points += pointsDraw
			b.Points += pointsDraw
		}
	}

	out := make([]LadderRow, 0, len(table))
	for _, r := range table {
		if r.PointsAgainst > 0 {
			r.Percentage = math.Round(r.PointsFor/r.PointsAgainst*10000) / 100
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// TeamSummaryMetrics are the per-team averages shown in team analysis.
var TeamSummaryMetrics = []string{"goals", "disposals", "marks", "tackles", "afl_fantasy_score", "supercoach_score"}

type TeamSummaryRow struct {
	Team     string            `json:"team"`
	Facts    int               `json:"facts"`
	Averages []statvalue.Value `json:"averages"`
}

type TeamSummary struct {
	Metrics []string         `json:"metrics"`
	Rows    []TeamSummaryRow `json:"rows"`
}

// SummarizeTeams averages TeamSummaryMetrics per team, ordered by average
// AFL Fantasy score descending.
func SummarizeTeams(facts []fact.Fact) (TeamSummary, error) {
	cmp, err := Compare(facts, GroupTeam, TeamSummaryMetrics, nil)
	if err != nil {
		return TeamSummary{}, err
	}
	sizes := make(map[string]int)
	for i := range facts {
		sizes[facts[i].Team]++
	}

	rows := make([]TeamSummaryRow, 0, len(cmp.Entities))
	for _, v := range cmp.Entities {
		rows = append(rows, TeamSummaryRow{Team: v.Label, Facts: sizes[v.Key], Averages: v.Values})
	}

	fantasy := 0
	for i, key := range cmp.Metrics {
		if key == playerstats.AFLFantasyScore.Key() {
			fantasy = i
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].Averages[fantasy].Float64()
		b, bok := rows[j].Averages[fantasy].Float64()
		if aok != bok {
			return aok
		}
		return a > b
	})
	return TeamSummary{Metrics: cmp.Metrics, Rows: rows}, nil
}

// DroughtRow reports the longest and the current run of games without a goal.
type DroughtRow struct {
	PlayerKey      string `json:"player_key"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	Games          int    `json:"games"`
	TotalGoals     int    `json:"total_goals"`
	MaxDrought     int    `json:"max_drought"`
	CurrentDrought int    `json:"current_drought"`
}

// GoalDroughts walks each player's games in date order. Games without a goals
// value are skipped. Players need at least minGames counted games and at
// least one goalless game to appear. Rows are ordered by longest drought.
func GoalDroughts(facts []fact.Fact, minGames int) []DroughtRow {
	if minGames <= 0 {
		minGames = DefaultDroughtMinGames
	}

	out := make([]DroughtRow, 0, 64)
	for _, games := range byPlayer(facts) {
		var row DroughtRow
		run := 0
		for _, f := range games {
			row.PlayerKey = f.PlayerKey
			row.Name = f.FullName()
			row.Team = f.Team
			goals, ok := f.Stat(playerstats.Goals).Float64()
			if !ok {
				continue
			}
			row.Games++
			row.TotalGoals += int(goals)
			if goals > 0 {
				run = 0
				continue
			}
			run++
			if run > row.MaxDrought {
				row.MaxDrought = run
			}
		}
		row.CurrentDrought = run
		if row.Games < minGames || row.MaxDrought == 0 {
			continue
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaxDrought > out[j].MaxDrought
	})
	return out
}

// ConsistencyRow is a player's coefficient of variation for a statistic;
// lower is more consistent.
type ConsistencyRow struct {
	PlayerKey string  `json:"player_key"`
	Name      string  `json:"name"`
	Team      string  `json:"team"`
	Games     int     `json:"games"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	CV        float64 `json:"cv"`
}

// Consistency ranks players by the coefficient of variation of stat using the
// sample standard deviation. Only present values count towards minGames.
// Players whose mean is zero or below minAverage are left out.
func Consistency(facts []fact.Fact, stat string, minGames int, minAverage float64) ([]ConsistencyRow, error) {
	metric, ok := fact.LookupMetric(stat)
	if !ok {
		return nil, fmt.Errorf("%w: unknown statistic %q", ErrInvalidQuery, stat)
	}
	if minGames <= 0 {
		minGames = DefaultConsistencyMinGames
	}
	if minGames < 2 {
		minGames = 2
	}

	out := make([]ConsistencyRow, 0, 64)
	for _, games := range byPlayer(facts) {
		values := make([]float64, 0, len(games))
		for _, f := range games {
			if v, ok := metric.Value(f).Float64(); ok {
				values = append(values, v)
			}
		}
		if len(values) < minGames {
			continue
		}
		mean, std := meanStd(values)
		if mean <= 0 || mean < minAverage {
			continue
		}
		last := games[len(games)-1]
		out = append(out, ConsistencyRow{
			PlayerKey: last.PlayerKey,
			Name:      last.FullName(),
			Team:      last.Team,
			Games:     len(values),
			Mean:      mean,
			StdDev:    std,
			CV:        std / mean,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CV < out[j].CV
	})
	return out, nil
}

// TeamRecordRow is a team's best single-game performance for a statistic.
type TeamRecordRow struct {
	Team         string          `json:"team"`
	Best         statvalue.Value `json:"best"`
	Holder       string          `json:"holder"`
	Date         time.Time       `json:"date"`
	TotalGoals   float64         `json:"total_goals"`
	AverageGoals statvalue.Value `json:"average_goals"`
}

// TeamRecords returns each team's single-game record for stat, ordered by the
// record value. The first fact to reach the record holds it.
func TeamRecords(facts []fact.Fact, stat string) ([]TeamRecordRow, error) {
	metric, ok := fact.LookupMetric(stat)
	if !ok {
		return nil, fmt.Errorf("%w: unknown statistic %q", ErrInvalidQuery, stat)
	}

	type acc struct {
		row       TeamRecordRow
		goalGames int
	}
	index := make(map[string]*acc)
	order := make([]*acc, 0, 18)
	for i := range facts {
		f := &facts[i]
		a, ok := index[f.Team]
		if !ok {
			a = &acc{row: TeamRecordRow{Team: f.Team}}
			index[f.Team] = a
			order = append(order, a)
		}
		if g, ok := f.Stat(playerstats.Goals).Float64(); ok {
			a.row.TotalGoals += g
			a.goalGames++
		}
		v, ok := metric.Value(f).Float64()
		if !ok {
			continue
		}
		if best, has := a.row.Best.Float64(); !has || v > best {
			a.row.Best = statvalue.Number(v)
			a.row.Holder = f.FullName()
			a.row.Date = f.Date
		}
	}

	out := make([]TeamRecordRow, 0, len(order))
	for _, a := range order {
		if a.goalGames > 0 {
			a.row.AverageGoals = statvalue.Number(a.row.TotalGoals / float64(a.goalGames))
		}
		out = append(out, a.row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].Best.Float64()
		b, bok := out[j].Best.Float64()
		if aok != bok {
			return aok
		}
		return a > b
	})
	return out, nil
}

// byPlayer groups facts by player in first-seen order, each group sorted by
// date.
func byPlayer(facts []fact.Fact) [][]*fact.Fact {
	index := make(map[string]int)
	out := make([][]*fact.Fact, 0, 64)
	for i := range facts {
		f := &facts[i]
		pos, ok := index[f.PlayerKey]
		if !ok {
			pos = len(out)
			index[f.PlayerKey] = pos
			out = append(out, nil)
		}
		out[pos] = append(out[pos], f)
	}
	for _, games := range out {
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].Date.Before(games[j].Date)
		})
	}
	return out
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}
