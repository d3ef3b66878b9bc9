package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-stats/internal/domain/query"
)

// InsightsService computes the dashboard's derived tables from the session.
type InsightsService struct {
	session *QueryService
}

func NewInsightsService(session *QueryService) *InsightsService {
	return &InsightsService{session: session}
}

// Ladder uses every fact of the season regardless of the team filter, since a
// ladder needs both sides of each match. A zero season falls back to the
// filter season, then to the latest loaded season.
func (s *InsightsService) Ladder(ctx context.Context, season int) ([]query.LadderRow, error) {
	_, span := startUsecaseSpan(ctx, "InsightsService.Ladder")
	defer span.End()

	if season < 0 {
		return nil, fmt.Errorf("%w: season must not be negative", ErrInvalidQuery)
	}
	if season == 0 {
		season = s.session.State().Season
	}
	return query.Ladder(s.session.Dataset().Facts(), season), nil
}

func (s *InsightsService) TeamSummary(ctx context.Context) (query.TeamSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "InsightsService.TeamSummary")
	defer span.End()

	summary, err := query.SummarizeTeams(s.session.Active(ctx))
	if err != nil {
		return query.TeamSummary{}, fmt.Errorf("summarize teams: %w", err)
	}
	return summary, nil
}

func (s *InsightsService) GoalDroughts(ctx context.Context, minGames int) ([]query.DroughtRow, error) {
	ctx, span := startUsecaseSpan(ctx, "InsightsService.GoalDroughts")
	defer span.End()

	if minGames < 0 {
		return nil, fmt.Errorf("%w: min games must not be negative", ErrInvalidQuery)
	}
	return query.GoalDroughts(s.session.Active(ctx), minGames), nil
}

// Consistency ranks players by coefficient of variation. An empty stat uses
// the filter's selected statistic.
func (s *InsightsService) Consistency(ctx context.Context, stat string, minGames int, minAverage float64) ([]query.ConsistencyRow, error) {
	ctx, span := startUsecaseSpan(ctx, "InsightsService.Consistency", attribute.String("afl.stat", stat))
	defer span.End()

	if minGames < 0 {
		return nil, fmt.Errorf("%w: min games must not be negative", ErrInvalidQuery)
	}
	if stat == "" {
		stat = s.session.State().Stat
	}
	rows, err := query.Consistency(s.session.Active(ctx), stat, minGames, minAverage)
	if err != nil {
		return nil, fmt.Errorf("consistency for %s: %w", stat, err)
	}
	return rows, nil
}

func (s *InsightsService) TeamRecords(ctx context.Context, stat string) ([]query.TeamRecordRow, error) {
	ctx, span := startUsecaseSpan(ctx, "InsightsService.TeamRecords")
	defer span.End()

	if stat == "" {
		stat = s.session.State().Stat
	}
	rows, err := query.TeamRecords(s.session.Active(ctx), stat)
	if err != nil {
		return nil, fmt.Errorf("team records for %s: %w", stat, err)
	}
	return rows, nil
}
