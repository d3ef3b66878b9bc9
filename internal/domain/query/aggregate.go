package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

type GroupBy string

const (
	GroupNone   GroupBy = "none"
	GroupTeam   GroupBy = "team"
	GroupSeason GroupBy = "season"
	GroupPlayer GroupBy = "player"
)

func ParseGroupBy(raw string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GroupNone, nil
	case GroupNone, GroupTeam, GroupSeason, GroupPlayer:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown grouping %q", ErrInvalidQuery, raw)
	}
}

type Mode string

const (
	ModeSum     Mode = "sum"
	ModeAverage Mode = "average"
	ModeTop     Mode = "top"
)

func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModeSum, ModeAverage, ModeTop:
		return m, nil
	case "avg", "mean":
		return ModeAverage, nil
	case "total":
		return ModeSum, nil
	default:
		return "", fmt.Errorf("%w: unknown aggregation mode %q", ErrInvalidQuery, raw)
	}
}

const DefaultTopN = 10

// Request describes one aggregation. RankBy selects how groups are ranked in
// top mode and defaults to sum.
type Request struct {
	GroupBy GroupBy
	Stat    string
	Mode    Mode
	N       int
	RankBy  Mode
}

// Row is one group, or one fact when ranking ungrouped facts.
type Row struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Team     string          `json:"team,omitempty"`
	Season   int             `json:"season,omitempty"`
	Value    statvalue.Value `json:"value"`
	Present  int             `json:"present"`
	Size     int             `json:"size"`
	Date     *time.Time      `json:"date,omitempty"`
	Opponent string          `json:"opponent,omitempty"`
}

type Result struct {
	GroupBy GroupBy `json:"group_by"`
	Stat    string  `json:"stat"`
	Label   string  `json:"label"`
	Mode    Mode    `json:"mode"`
	RankBy  Mode    `json:"rank_by,omitempty"`
	Rows    []Row   `json:"rows"`
}

func (r Request) validate() (Request, fact.Metric, error) {
	out := r
	if out.GroupBy == "" {
		out.GroupBy = GroupNone
	}
	if _, err := ParseGroupBy(string(out.GroupBy)); err != nil {
		return Request{}, fact.Metric{}, err
	}
	mode, err := ParseMode(string(out.Mode))
	if err != nil {
		return Request{}, fact.Metric{}, err
	}
	out.Mode = mode

	metric, ok := fact.LookupMetric(out.Stat)
	if !ok {
		return Request{}, fact.Metric{}, fmt.Errorf("%w: unknown statistic %q", ErrInvalidQuery, out.Stat)
	}
	out.Stat = metric.Key

	if out.N < 0 {
		return Request{}, fact.Metric{}, fmt.Errorf("%w: n must not be negative", ErrInvalidQuery)
	}
	if out.Mode != ModeTop {
		out.RankBy = ""
		return out, metric, nil
	}
	if out.N == 0 {
		out.N = DefaultTopN
	}
	switch out.RankBy {
	case "":
		out.RankBy = ModeSum
	case ModeSum, ModeAverage:
	default:
		return Request{}, fact.Metric{}, fmt.Errorf("%w: rank by must be sum or average", ErrInvalidQuery)
	}
	return out, metric, nil
}

// Aggregate computes req over facts. Missing values are left out of both the
// total and the count, so averages are over present values only. Groups come
// back in first-seen order; top mode ranks descending and keeps first-seen
// order among ties.
func Aggregate(facts []fact.Fact, req Request) (Result, error) {
	req, metric, err := req.validate()
	if err != nil {
		return Result{}, err
	}

	result := Result{
		GroupBy: req.GroupBy,
		Stat:    metric.Key,
		Label:   metric.Label,
		Mode:    req.Mode,
		RankBy:  req.RankBy,
	}

	if req.Mode == ModeTop && req.GroupBy == GroupNone {
		result.Rows = topFacts(facts, metric, req.N)
		return result, nil
	}

	groups := groupFacts(facts, req.GroupBy, metric)
	valueMode := req.Mode
	if req.Mode == ModeTop {
		valueMode = req.RankBy
	}

	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		row := g.row
		if g.row.Present > 0 {
			if valueMode == ModeAverage {
				row.Value = statvalue.Number(g.sum / float64(g.row.Present))
			} else {
				row.Value = statvalue.Number(g.sum)
			}
		}
		rows = append(rows, row)
	}

	if req.Mode == ModeTop {
		rows = rankRows(rows, req.N)
	}
	result.Rows = rows
	return result, nil
}

type group struct {
	row Row
	sum float64
}

func groupFacts(facts []fact.Fact, by GroupBy, metric fact.Metric) []*group {
	index := make(map[string]*group)
	order := make([]*group, 0, 32)

	for i := range facts {
		f := &facts[i]
		key, label := groupKey(f, by)
		g, ok := index[key]
		if !ok {
			g = &group{row: Row{Key: key, Label: label}}
			switch by {
			case GroupTeam:
				g.row.Team = f.Team
			case GroupSeason:
				g.row.Season = f.Season
			}
			index[key] = g
			order = append(order, g)
		}
		if by == GroupPlayer {
			g.row.Team = f.Team
		}
		g.row.Size++
		if v, ok := metric.Value(f).Float64(); ok {
			g.sum += v
			g.row.Present++
		}
	}
	return order
}

func groupKey(f *fact.Fact, by GroupBy) (string, string) {
	switch by {
	case GroupTeam:
		return f.Team, f.Team
	case GroupSeason:
		s := strconv.Itoa(f.Season)
		return s, s
	case GroupPlayer:
		return f.PlayerKey, f.FullName()
	default:
		return "all", "All"
	}
}

func rankRows(rows []Row, n int) []Row {
	ranked := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Value.IsPresent() {
			ranked = append(ranked, row)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value.Or(0) > ranked[j].Value.Or(0)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topFacts(facts []fact.Fact, metric fact.Metric, n int) []Row {
	rows := make([]Row, 0, len(facts))
	for i := range facts {
		f := &facts[i]
		v := metric.Value(f)
		if !v.IsPresent() {
			continue
		}
		date := f.Date
		rows = append(rows, Row{
			Key:      f.PlayerKey + "@" + f.MatchKey(),
			Label:    f.FullName(),
			Team:     f.Team,
			Season:   f.Season,
			Value:    v,
			Present:  1,
			Size:     1,
			Date:     &date,
			Opponent: f.Opponent,
		})
	}
	return rankRows(rows, n)
}
