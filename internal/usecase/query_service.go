package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

// QueryService is the interactive session. It owns the loaded dataset, the
// current filter state and the active subset derived from them. Every state
// change re-derives the subset in full.
type QueryService struct {
	mu      sync.RWMutex
	dataset *fact.Dataset
	state   query.FilterState
	active  []fact.Fact

	defaults   query.FilterState
	aggregator *AggregationService
	logger     *logging.Logger
}

func NewQueryService(defaults query.FilterState, aggregator *AggregationService, logger *logging.Logger) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}
	if aggregator == nil {
		aggregator = NewAggregationService(nil, logger)
	}
	normalized, err := defaults.Normalize()
	if err != nil {
		normalized = query.DefaultFilter()
	}
	return &QueryService{
		dataset:    fact.Empty(),
		state:      normalized,
		defaults:   normalized,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Load swaps in ds as a whole and re-derives the active subset under the
// current filter state.
func (s *QueryService) Load(ctx context.Context, ds *fact.Dataset) {
	if ds == nil {
		ds = fact.Empty()
	}
	ctx, span := startUsecaseSpan(ctx, "QueryService.Load", datasetAttrs(ds.ID.String(), ds.Len())...)
	defer span.End()

	s.mu.Lock()
	previous := s.dataset
	s.dataset = ds
	s.active = query.ApplyFilter(ds, s.state)
	activeCount := len(s.active)
	s.mu.Unlock()

	if previous != nil && previous.Len() > 0 {
		s.aggregator.Invalidate(ctx, previous.ID.String()+"|")
	}
	s.logger.InfoContext(ctx, "dataset loaded",
		"dataset_id", ds.ID.String(),
		"facts", ds.Len(),
		"players", ds.Players(),
		"active", activeCount,
	)
}

func (s *QueryService) Dataset() *fact.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func (s *QueryService) State() query.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Active returns the current subset. Callers must not modify it.
func (s *QueryService) Active(ctx context.Context) []fact.Fact {
	_, span := startUsecaseSpan(ctx, "QueryService.Active")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ApplyFilter validates state, makes it current and returns the new subset.
// An invalid state leaves the session untouched.
func (s *QueryService) ApplyFilter(ctx context.Context, state query.FilterState) ([]fact.Fact, error) {
	ctx, span := startUsecaseSpan(ctx, "QueryService.ApplyFilter")
	defer span.End()

	normalized, err := state.Normalize()
	if err != nil {
		return nil, fmt.Errorf("apply filter: %w", err)
	}

	s.mu.Lock()
	s.state = normalized
	s.active = query.ApplyFilter(s.dataset, normalized)
	active := s.active
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "filter applied",
		"team", normalized.Team,
		"season", normalized.Season,
		"min_games", normalized.MinGames,
		"stat", normalized.Stat,
		"position", normalized.Position,
		"active", len(active),
	)
	return active, nil
}

// Reset restores the default filter state.
func (s *QueryService) Reset(ctx context.Context) []fact.Fact {
	ctx, span := startUsecaseSpan(ctx, "QueryService.Reset")
	defer span.End()

	s.mu.Lock()
	s.state = s.defaults
	s.active = query.ApplyFilter(s.dataset, s.state)
	active := s.active
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "filter reset", "active", len(active))
	return active
}

// Aggregate runs req over the active subset.
func (s *QueryService) Aggregate(ctx context.Context, req query.Request) (query.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "QueryService.Aggregate")
	defer span.End()

	scope, facts := s.snapshot()
	return s.aggregator.Aggregate(ctx, scope, facts, req)
}

// Rank returns the top n players by the selected statistic of the current
// filter state.
func (s *QueryService) Rank(ctx context.Context, n int, rankBy query.Mode) (query.Result, error) {
	state := s.State()
	return s.Aggregate(ctx, query.Request{
		GroupBy: query.GroupPlayer,
		Stat:    state.Stat,
		Mode:    query.ModeTop,
		N:       n,
		RankBy:  rankBy,
	})
}

// Compare builds per-entity metric vectors over the active subset.
func (s *QueryService) Compare(ctx context.Context, by query.GroupBy, metrics, keys []string) (query.Comparison, error) {
	_, span := startUsecaseSpan(ctx, "QueryService.Compare")
	defer span.End()

	if _, err := query.ParseGroupBy(string(by)); err != nil {
		return query.Comparison{}, err
	}
	_, facts := s.snapshot()
	cmp, err := query.Compare(facts, by, metrics, keys)
	if err != nil {
		return query.Comparison{}, fmt.Errorf("compare by %s: %w", by, err)
	}
	return cmp, nil
}

func (s *QueryService) snapshot() (string, []fact.Fact) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil || s.dataset.Len() == 0 {
		return "", s.active
	}
	return s.dataset.ID.String() + "|" + filterKey(s.state), s.active
}

func filterKey(state query.FilterState) string {
	return strings.Join([]string{
		strings.ToLower(state.Team),
		strconv.Itoa(state.Season),
		strconv.Itoa(state.MinGames),
		strings.ToLower(state.Position),
	}, "/")
}
