package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
)

// FactRepository keeps the last saved dataset in process.
type FactRepository struct {
	mu     sync.RWMutex
	latest *fact.Dataset
	saves  int
}

func NewFactRepository() *FactRepository {
	return &FactRepository{}
}

func (r *FactRepository) Save(_ context.Context, ds *fact.Dataset) error {
	if ds == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest = ds
	r.saves++
	return nil
}

func (r *FactRepository) Latest(_ context.Context) (*fact.Dataset, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.latest == nil {
		return nil, false, nil
	}
	return r.latest, true, nil
}

// Saves reports how many datasets have been stored.
func (r *FactRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}
