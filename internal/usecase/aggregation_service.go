package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/platform/cache"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

// AggregationService runs aggregations, memoising results per scope when a
// cache is configured. A scope must change whenever its facts change.
type AggregationService struct {
	results *cache.Store[query.Result]
	logger  *logging.Logger
}

func NewAggregationService(results *cache.Store[query.Result], logger *logging.Logger) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregationService{
		results: results,
		logger:  logger,
	}
}

func (s *AggregationService) Aggregate(ctx context.Context, scope string, facts []fact.Fact, req query.Request) (query.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "AggregationService.Aggregate",
		attribute.String("afl.stat", req.Stat),
		attribute.String("afl.group_by", string(req.GroupBy)),
		attribute.String("afl.mode", string(req.Mode)),
		attribute.Bool("afl.cached", s.results != nil && scope != ""),
	)
	defer span.End()

	if s.results == nil || scope == "" {
		return s.compute(ctx, facts, req)
	}
	return s.results.GetOrLoad(ctx, aggregateCacheKey(scope, req), func(ctx context.Context) (query.Result, error) {
		return s.compute(ctx, facts, req)
	})
}

func (s *AggregationService) compute(ctx context.Context, facts []fact.Fact, req query.Request) (query.Result, error) {
	result, err := query.Aggregate(facts, req)
	if err != nil {
		return query.Result{}, fmt.Errorf("aggregate %s by %s: %w", req.Stat, req.GroupBy, err)
	}
	s.logger.DebugContext(ctx, "aggregate computed",
		"stat", result.Stat,
		"group_by", string(result.GroupBy),
		"mode", string(result.Mode),
		"facts", len(facts),
		"rows", len(result.Rows),
	)
	return result, nil
}

// Invalidate drops every cached result whose scope starts with prefix.
func (s *AggregationService) Invalidate(ctx context.Context, prefix string) {
	if s.results == nil || prefix == "" {
		return
	}
	s.results.DeletePrefix(ctx, prefix)
}

func aggregateCacheKey(scope string, req query.Request) string {
	return strings.Join([]string{
		scope,
		strings.ToLower(string(req.GroupBy)),
		strings.ToLower(strings.TrimSpace(req.Stat)),
		strings.ToLower(string(req.Mode)),
		strconv.Itoa(req.N),
		strings.ToLower(string(req.RankBy)),
	}, "|")
}
