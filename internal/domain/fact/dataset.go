package fact

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Dataset is one complete load of facts. It is replaced as a whole on reload
// and never modified in place.
type Dataset struct {
	ID       uuid.UUID
	LoadedAt time.Time

	facts []Fact
	games map[string]int
}

// NewDataset takes ownership of facts. Games played per player are counted
// here, over the full set.
func NewDataset(facts []Fact, loadedAt time.Time) *Dataset {
	return newDataset(uuid.New(), facts, loadedAt)
}

// RestoreDataset rebuilds a dataset previously saved under id.
func RestoreDataset(id uuid.UUID, facts []Fact, loadedAt time.Time) *Dataset {
	return newDataset(id, facts, loadedAt)
}

func newDataset(id uuid.UUID, facts []Fact, loadedAt time.Time) *Dataset {
	games := make(map[string]int)
	for i := range facts {
		games[facts[i].PlayerKey]++
	}
	return &Dataset{
		ID:       id,
		LoadedAt: loadedAt.UTC(),
		facts:    facts,
		games:    games,
	}
}

func Empty() *Dataset {
	return &Dataset{games: map[string]int{}}
}

// Facts returns the shared fact slice. Callers must not modify it.
func (d *Dataset) Facts() []Fact {
	if d == nil {
		return nil
	}
	return d.facts
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.facts)
}

// GamesPlayed returns the number of facts in the whole dataset that share the
// player's identity.
func (d *Dataset) GamesPlayed(playerKey string) int {
	if d == nil {
		return 0
	}
	return d.games[playerKey]
}

// Players returns the number of distinct player identities.
func (d *Dataset) Players() int {
	if d == nil {
		return 0
	}
	return len(d.games)
}

// Seasons returns the distinct seasons present, ascending.
func (d *Dataset) Seasons() []int {
	if d == nil {
		return nil
	}
	seen := make(map[int]struct{})
	out := make([]int, 0, 16)
	for i := range d.facts {
		s := d.facts[i].Season
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
