package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/afl-stats/internal/domain/query"
)

func TestInsightsService_RejectsNegativeParameters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := NewQueryService(query.DefaultFilter(), nil, nil)
	session.Load(ctx, sessionDataset())
	svc := NewInsightsService(session)

	_, err := svc.Ladder(ctx, -1)
	assert.True(t, errors.Is(err, ErrInvalidQuery), "ladder: %v", err)

	_, err = svc.GoalDroughts(ctx, -1)
	assert.True(t, errors.Is(err, ErrInvalidQuery), "droughts: %v", err)

	_, err = svc.Consistency(ctx, "", -1, 0)
	assert.True(t, errors.Is(err, ErrInvalidQuery), "consistency: %v", err)
}

func TestInsightsService_TeamRecordsUnknownStat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := NewQueryService(query.DefaultFilter(), nil, nil)
	session.Load(ctx, sessionDataset())

	_, err := NewInsightsService(session).TeamRecords(ctx, "handpasses")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
