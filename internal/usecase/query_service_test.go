package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionFact(id int64, name, teamName string, date string, goals, disposals float64) fact.Fact {
	parts := strings.SplitN(name, " ", 2)
	f := fact.Fact{
		PlayerID:  player.NewID(id),
		FirstName: parts[0],
		Surname:   parts[1],
		Team:      teamName,
		Date:      mergeDate(date),
		Season:    mergeDate(date).Year(),
		MatchID:   date + ":" + teamName,
	}
	f.PlayerKey = fact.PlayerKey(f.PlayerID, f.FullName(), f.Team)
	f.Stats.Set(playerstats.Goals, statvalue.Number(goals))
	f.Stats.Set(playerstats.Disposals, statvalue.Number(disposals))
	return f
}

func sessionDataset() *fact.Dataset {
	return fact.NewDataset([]fact.Fact{
		sessionFact(1, "Dustin Martin", "Richmond", "2023-03-16", 2, 25),
		sessionFact(1, "Dustin Martin", "Richmond", "2024-03-14", 3, 20),
		sessionFact(1, "Dustin Martin", "Richmond", "2024-03-21", 1, 22),
		sessionFact(2, "Patrick Cripps", "Carlton", "2024-03-14", 0, 31),
		sessionFact(2, "Patrick Cripps", "Carlton", "2024-03-21", 1, 28),
		sessionFact(3, "Jack Graham", "West Coast Eagles", "2024-03-21", 0, 12),
	}, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
}

func TestQueryService_ApplyFilterAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewQueryService(query.DefaultFilter(), nil, nil)
	svc.Load(ctx, sessionDataset())
	require.Len(t, svc.Active(ctx), 6)

	active, err := svc.ApplyFilter(ctx, query.FilterState{Team: "Tigers", Season: 2024, MinGames: 3})
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, f := range active {
		assert.Equal(t, "Richmond", f.Team)
		assert.Equal(t, 2024, f.Season)
	}
	assert.Equal(t, "Richmond", svc.State().Team)
	assert.Equal(t, query.DefaultStat, svc.State().Stat)

	_, err = svc.ApplyFilter(ctx, query.FilterState{Stat: "handpasses"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got=%v", err)
	}
	assert.Equal(t, "Richmond", svc.State().Team, "invalid state must not replace the current one")
	assert.Len(t, svc.Active(ctx), 2)

	assert.Len(t, svc.Reset(ctx), 6)
	assert.Equal(t, query.DefaultFilter(), svc.State())
}

func TestQueryService_LoadKeepsFilterState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewQueryService(query.DefaultFilter(), nil, nil)
	_, err := svc.ApplyFilter(ctx, query.FilterState{Team: "Carlton"})
	require.NoError(t, err)
	assert.Empty(t, svc.Active(ctx))

	svc.Load(ctx, sessionDataset())
	assert.Len(t, svc.Active(ctx), 2)
}

func TestQueryService_AggregateIsCachedPerDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	results := cache.NewStore[query.Result](time.Minute, 16)
	svc := NewQueryService(query.DefaultFilter(), NewAggregationService(results, nil), nil)
	svc.Load(ctx, sessionDataset())

	req := query.Request{GroupBy: query.GroupTeam, Stat: "goals", Mode: query.ModeAverage}
	first, err := svc.Aggregate(ctx, req)
	require.NoError(t, err)
	second, err := svc.Aggregate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, results.Len())

	require.Len(t, first.Rows, 3)
	assert.Equal(t, "Richmond", first.Rows[0].Key)
	assert.Equal(t, 2.0, first.Rows[0].Value.Or(0))

	_, err = svc.ApplyFilter(ctx, query.FilterState{Season: 2024})
	require.NoError(t, err)
	_, err = svc.Aggregate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, results.Len())

	svc.Load(ctx, sessionDataset())
	assert.Equal(t, 0, results.Len())
}

func TestQueryService_AggregateUnknownStat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewQueryService(query.DefaultFilter(), NewAggregationService(cache.NewStore[query.Result](time.Minute, 16), nil), nil)
	svc.Load(ctx, sessionDataset())

	_, err := svc.Aggregate(ctx, query.Request{GroupBy: query.GroupTeam, Stat: "handpasses", Mode: query.ModeAverage})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got=%v", err)
	}
}

func TestQueryService_RankUsesSelectedStat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewQueryService(query.DefaultFilter(), nil, nil)
	svc.Load(ctx, sessionDataset())

	result, err := svc.Rank(ctx, 2, query.ModeSum)
	require.NoError(t, err)
	assert.Equal(t, "disposals", result.Stat)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Dustin Martin", result.Rows[0].Label)
	assert.Equal(t, 67.0, result.Rows[0].Value.Or(0))
	assert.Equal(t, "Patrick Cripps", result.Rows[1].Label)
}

func TestInsightsService_UsesActiveSubset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := NewQueryService(query.DefaultFilter(), nil, nil)
	session.Load(ctx, sessionDataset())
	insights := NewInsightsService(session)

	_, err := session.ApplyFilter(ctx, query.FilterState{Team: "Carlton"})
	require.NoError(t, err)

	records, err := insights.TeamRecords(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Carlton", records[0].Team)

	_, err = insights.Consistency(ctx, "handpasses", 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidQuery))

	_, err = insights.GoalDroughts(ctx, -1)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}
