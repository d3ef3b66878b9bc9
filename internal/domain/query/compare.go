package query

import (
	"strings"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/domain/team"
)

// DefaultRadarMetrics are the team comparison axes of the dashboard.
var DefaultRadarMetrics = []string{"goals", "disposals", "marks", "tackles", "afl_fantasy_score"}

// Vector is one entity's averages, aligned with Comparison.Metrics.
type Vector struct {
	Key    string            `json:"key"`
	Label  string            `json:"label"`
	Values []statvalue.Value `json:"values"`
}

type Comparison struct {
	GroupBy  GroupBy  `json:"group_by"`
	Metrics  []string `json:"metrics"`
	Entities []Vector `json:"entities"`
}

// Compare averages each metric per group and assembles one vector per group.
// When keys is non-empty only the matching groups are kept, in keys order;
// keys match a group key or label case-insensitively, and a key with no
// facts gets a vector of missing values.
func Compare(facts []fact.Fact, by GroupBy, metrics []string, keys []string) (Comparison, error) {
	if len(metrics) == 0 {
		metrics = DefaultRadarMetrics
	}

	out := Comparison{GroupBy: by, Metrics: make([]string, 0, len(metrics))}
	index := make(map[string]int)

	for m, name := range metrics {
		res, err := Aggregate(facts, Request{GroupBy: by, Stat: name, Mode: ModeAverage})
		if err != nil {
			return Comparison{}, err
		}
		out.GroupBy = res.GroupBy
		out.Metrics = append(out.Metrics, res.Stat)

		for _, row := range res.Rows {
			pos, ok := index[row.Key]
			if !ok {
				pos = len(out.Entities)
				index[row.Key] = pos
				out.Entities = append(out.Entities, Vector{
					Key:    row.Key,
					Label:  row.Label,
					Values: make([]statvalue.Value, len(metrics)),
				})
			}
			out.Entities[pos].Values[m] = row.Value
		}
	}

	if len(keys) == 0 {
		return out, nil
	}

	selected := make([]Vector, 0, len(keys))
	for _, key := range keys {
		v, ok := findVector(out.Entities, key)
		if !ok {
			v = Vector{Key: key, Label: key, Values: make([]statvalue.Value, len(metrics))}
		}
		selected = append(selected, v)
	}
	out.Entities = selected
	return out, nil
}

func findVector(vectors []Vector, key string) (Vector, bool) {
	key = strings.TrimSpace(key)
	for _, v := range vectors {
		if strings.EqualFold(v.Key, key) || strings.EqualFold(v.Label, key) {
			return v, true
		}
	}
	if canonical := team.Canonical(key); canonical != key {
		for _, v := range vectors {
			if strings.EqualFold(v.Key, canonical) {
				return v, true
			}
		}
	}
	return Vector{}, false
}
