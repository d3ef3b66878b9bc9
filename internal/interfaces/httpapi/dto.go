package httpapi

import (
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
)

type healthDTO struct {
	Status    string     `json:"status"`
	DatasetID string     `json:"dataset_id,omitempty"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Facts     int        `json:"facts"`
	Players   int        `json:"players"`
	Seasons   []int      `json:"seasons"`
}

type filterRequest struct {
	Team     string `json:"team" validate:"omitempty,max=64"`
	Season   int    `json:"season" validate:"gte=0"`
	MinGames int    `json:"min_games" validate:"gte=0"`
	Stat     string `json:"stat" validate:"omitempty,max=64"`
	Position string `json:"position" validate:"omitempty,max=32"`
}

func (r filterRequest) toState() query.FilterState {
	return query.FilterState{
		Team:     r.Team,
		Season:   r.Season,
		MinGames: r.MinGames,
		Stat:     r.Stat,
		Position: r.Position,
	}
}

type filterDTO struct {
	State query.FilterState `json:"state"`
	Facts int               `json:"facts"`
}

type factListDTO struct {
	Total int       `json:"total"`
	Facts []factDTO `json:"facts"`
}

type factDTO struct {
	PlayerKey string              `json:"player_key"`
	PlayerID  *int64              `json:"player_id"`
	Name      string              `json:"name"`
	Team      string              `json:"team"`
	Opponent  string              `json:"opponent,omitempty"`
	Venue     string              `json:"venue,omitempty"`
	Round     string              `json:"round,omitempty"`
	MatchKey  string              `json:"match_key"`
	Date      string              `json:"date"`
	Season    int                 `json:"season"`
	Position  string              `json:"position,omitempty"`
	Linked    bool                `json:"bio_linked"`
	Stats     map[string]float64  `json:"stats"`
	Price     map[string]*float64 `json:"price,omitempty"`
}

type statDTO struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Source string `json:"source"`
}

// factToDTO lists only the statistics present on the fact.
func factToDTO(f *fact.Fact) factDTO {
	out := factDTO{
		PlayerKey: f.PlayerKey,
		Name:      f.FullName(),
		Team:      f.Team,
		Opponent:  f.Opponent,
		Venue:     f.Venue,
		Round:     f.Round,
		MatchKey:  f.MatchKey(),
		Date:      f.Date.Format(time.DateOnly),
		Season:    f.Season,
		Position:  f.Position,
		Linked:    f.Bio.Linked,
		Stats:     make(map[string]float64, f.Stats.PresentCount()),
	}
	if id, ok := f.PlayerID.Int64(); ok {
		out.PlayerID = &id
	}
	for s := playerstats.Stat(0); s < playerstats.NumStats; s++ {
		if v, ok := f.Stat(s).Float64(); ok {
			out.Stats[s.Key()] = v
		}
	}
	if f.Price.Linked {
		out.Price = make(map[string]*float64, pricing.NumFields)
		for field := pricing.Field(0); field < pricing.NumFields; field++ {
			out.Price[field.Key()] = f.Price.Values[field].Ptr()
		}
	}
	return out
}

func factsToDTO(facts []fact.Fact) []factDTO {
	out := make([]factDTO, 0, len(facts))
	for i := range facts {
		out = append(out, factToDTO(&facts[i]))
	}
	return out
}

func metricsToDTO(metrics []fact.Metric) []statDTO {
	out := make([]statDTO, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, statDTO{Key: m.Key, Label: m.Label, Source: string(m.Source)})
	}
	return out
}
