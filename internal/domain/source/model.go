package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
)

// Kind names one of the upstream row sources.
type Kind string

const (
	KindDetails Kind = "details"
	KindStats   Kind = "stats"
	KindPrice   Kind = "price"
)

var AllKinds = []Kind{KindDetails, KindStats, KindPrice}

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindDetails, "player_details", "players":
		return KindDetails, nil
	case KindStats, "player_stats":
		return KindStats, nil
	case KindPrice, "prices", "supercoach_prices":
		return KindPrice, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", raw)
	}
}

// Row is one raw tabular record keyed by column header.
type Row map[string]string

// Header returns the union of column names across rows, sorted.
func Header(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for col := range seen {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

// Batch is the output of normalizing one or more row batches. Records that
// failed a load-critical check are absent; the report says why.
type Batch struct {
	Players []player.Record
	Stats   []playerstats.Record
	Prices  []pricing.Record
	Report  reconcile.Report
}

func (b *Batch) Append(other Batch) {
	b.Players = append(b.Players, other.Players...)
	b.Stats = append(b.Stats, other.Stats...)
	b.Prices = append(b.Prices, other.Prices...)
	b.Report.Merge(other.Report)
}

func (b Batch) Len() int {
	return len(b.Players) + len(b.Stats) + len(b.Prices)
}
