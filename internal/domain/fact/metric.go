package fact

import (
	"sort"
	"strings"

	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
)

type MetricSource string

const (
	MetricSourceStat  MetricSource = "stat"
	MetricSourcePrice MetricSource = "price"
	MetricSourceBio   MetricSource = "bio"
)

// Metric is a numeric attribute of a fact that can be aggregated.
type Metric struct {
	Key    string
	Label  string
	Source MetricSource
	value  func(*Fact) statvalue.Value
}

func (m Metric) Value(f *Fact) statvalue.Value {
	if m.value == nil || f == nil {
		return statvalue.Missing()
	}
	return m.value(f)
}

var metrics = buildMetrics()

func buildMetrics() map[string]Metric {
	out := make(map[string]Metric, int(playerstats.NumStats)+int(pricing.NumFields)+4)
	for _, d := range playerstats.Definitions() {
		stat := d.Stat
		out[d.Key] = Metric{
			Key:    d.Key,
			Label:  d.Label,
			Source: MetricSourceStat,
			value:  func(f *Fact) statvalue.Value { return f.Stats.Get(stat) },
		}
	}
	for field := pricing.Field(0); field < pricing.NumFields; field++ {
		field := field
		out[field.Key()] = Metric{
			Key:    field.Key(),
			Label:  priceLabel(field.Key()),
			Source: MetricSourcePrice,
			value:  func(f *Fact) statvalue.Value { return f.Price.Values[field] },
		}
	}
	bio := []Metric{
		{Key: "height_cm", Label: "Height (cm)", value: func(f *Fact) statvalue.Value { return f.Bio.HeightCM }},
		{Key: "weight_kg", Label: "Weight (kg)", value: func(f *Fact) statvalue.Value { return f.Bio.WeightKG }},
		{Key: "draft_position", Label: "Draft Position", value: func(f *Fact) statvalue.Value { return f.Bio.DraftPosition }},
		{Key: "debut_year", Label: "Debut Year", value: func(f *Fact) statvalue.Value { return f.Bio.DebutYear }},
	}
	for _, m := range bio {
		m.Source = MetricSourceBio
		out[m.Key] = m
	}
	return out
}

func priceLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// LookupMetric resolves a metric by canonical key or by any statistic
// spelling the catalogue knows.
func LookupMetric(name string) (Metric, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if m, ok := metrics[key]; ok {
		return m, true
	}
	if s, ok := playerstats.Lookup(name); ok {
		return metrics[s.Key()], true
	}
	return Metric{}, false
}

// Metrics returns every metric sorted by source then key.
func Metrics() []Metric {
	out := make([]Metric, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source > out[j].Source
		}
		return out[i].Key < out[j].Key
	})
	return out
}
