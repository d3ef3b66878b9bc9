package query

import (
	"errors"
	"testing"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregateFacts() []fact.Fact {
	return []fact.Fact{
		newFact(1, "Alpha", "Richmond", 2024, "2024-04-01", statSet{playerstats.Goals: 3, playerstats.Disposals: 20}),
		newFact(2, "Bravo", "Carlton", 2024, "2024-04-01", statSet{playerstats.Goals: 2, playerstats.Disposals: 25}),
		newFact(1, "Alpha", "Richmond", 2024, "2024-04-08", statSet{playerstats.Disposals: 30}),
		newFact(3, "Charlie", "Richmond", 2023, "2023-04-08", statSet{playerstats.Goals: 1}),
		newFact(2, "Bravo", "Carlton", 2023, "2023-04-08", statSet{playerstats.Goals: 2, playerstats.Disposals: 18}),
	}
}

func TestAggregateAverageExcludesMissing(t *testing.T) {
	res, err := Aggregate(aggregateFacts(), Request{GroupBy: GroupTeam, Stat: "goals", Mode: ModeAverage})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	richmond := res.Rows[0]
	assert.Equal(t, "Richmond", richmond.Key)
	assert.Equal(t, 3, richmond.Size)
	assert.Equal(t, 2, richmond.Present)
	avg, ok := richmond.Value.Float64()
	require.True(t, ok)
	assert.InDelta(t, 2.0, avg, 1e-9)

	carlton := res.Rows[1]
	assert.Equal(t, "Carlton", carlton.Key)
	assert.InDelta(t, 2.0, carlton.Value.Or(-1), 1e-9)
}

func TestAggregateSumBySeasonKeepsFirstSeenOrder(t *testing.T) {
	res, err := Aggregate(aggregateFacts(), Request{GroupBy: GroupSeason, Stat: "disposals", Mode: ModeSum})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "2024", res.Rows[0].Key)
	assert.Equal(t, 75.0, res.Rows[0].Value.Or(-1))
	assert.Equal(t, "2023", res.Rows[1].Key)
	assert.Equal(t, 18.0, res.Rows[1].Value.Or(-1))
	assert.Equal(t, 1, res.Rows[1].Present)
}

func TestAggregateGroupWithNoValuesIsMissing(t *testing.T) {
	res, err := Aggregate(aggregateFacts(), Request{GroupBy: GroupPlayer, Stat: "disposals", Mode: ModeAverage})
	require.NoError(t, err)

	var charlie *Row
	for i := range res.Rows {
		if res.Rows[i].Key == "id:3" {
			charlie = &res.Rows[i]
		}
	}
	require.NotNil(t, charlie)
	assert.False(t, charlie.Value.IsPresent())
	assert.Equal(t, 0, charlie.Present)
}

func TestAggregateTopRanksStably(t *testing.T) {
	facts := []fact.Fact{
		newFact(1, "Alpha", "Richmond", 2024, "2024-04-01", statSet{playerstats.Goals: 2}),
		newFact(2, "Bravo", "Carlton", 2024, "2024-04-01", statSet{playerstats.Goals: 5}),
		newFact(3, "Charlie", "Richmond", 2024, "2024-04-01", statSet{playerstats.Goals: 2}),
		newFact(4, "Delta", "Carlton", 2024, "2024-04-01", statSet{playerstats.Kicks: 9}),
	}

	res, err := Aggregate(facts, Request{GroupBy: GroupPlayer, Stat: "goals", Mode: ModeTop, N: 3})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"id:2", "id:1", "id:3"}, []string{res.Rows[0].Key, res.Rows[1].Key, res.Rows[2].Key})

	again, err := Aggregate(facts, Request{GroupBy: GroupPlayer, Stat: "goals", Mode: ModeTop, N: 3})
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestAggregateTopUngroupedRanksFacts(t *testing.T) {
	res, err := Aggregate(aggregateFacts(), Request{Stat: "disposals", Mode: ModeTop, N: 2})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 30.0, res.Rows[0].Value.Or(-1))
	assert.Equal(t, "Alpha", res.Rows[0].Label)
	require.NotNil(t, res.Rows[0].Date)
	assert.Equal(t, 25.0, res.Rows[1].Value.Or(-1))
}

func TestAggregateTopByAverage(t *testing.T) {
	res, err := Aggregate(aggregateFacts(), Request{GroupBy: GroupPlayer, Stat: "disposals", Mode: ModeTop, RankBy: ModeAverage})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "id:1", res.Rows[0].Key)
	assert.Equal(t, 25.0, res.Rows[0].Value.Or(-1))
	assert.Equal(t, "id:2", res.Rows[1].Key)
	assert.Equal(t, 21.5, res.Rows[1].Value.Or(-1))
}

func TestAggregateInvalidQuery(t *testing.T) {
	cases := []Request{
		{GroupBy: GroupTeam, Stat: "handpasses", Mode: ModeSum},
		{GroupBy: "venue", Stat: "goals", Mode: ModeSum},
		{GroupBy: GroupTeam, Stat: "goals", Mode: "median"},
		{GroupBy: GroupTeam, Stat: "goals", Mode: ModeTop, N: -1},
		{GroupBy: GroupTeam, Stat: "goals", Mode: ModeTop, RankBy: ModeTop},
	}
	for _, req := range cases {
		res, err := Aggregate(aggregateFacts(), req)
		if !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("expected invalid query for %+v, got=%v", req, err)
		}
		if len(res.Rows) != 0 {
			t.Fatalf("expected no rows on error, got=%d", len(res.Rows))
		}
	}
}

func TestCompareBuildsVectorsPerMetric(t *testing.T) {
	cmp, err := Compare(aggregateFacts(), GroupTeam, []string{"goals", "disposals"}, []string{"Blues", "Tigers", "Hawks"})
	require.NoError(t, err)
	assert.Equal(t, []string{"goals", "disposals"}, cmp.Metrics)
	require.Len(t, cmp.Entities, 3)

	carlton := cmp.Entities[0]
	assert.Equal(t, "Carlton", carlton.Key)
	assert.Equal(t, 2.0, carlton.Values[0].Or(-1))
	assert.Equal(t, 21.5, carlton.Values[1].Or(-1))

	richmond := cmp.Entities[1]
	assert.Equal(t, "Richmond", richmond.Key)
	assert.Equal(t, 25.0, richmond.Values[1].Or(-1))

	hawks := cmp.Entities[2]
	assert.False(t, hawks.Values[0].IsPresent())

	_, err = Compare(aggregateFacts(), GroupTeam, []string{"goals", "handpasses"}, nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
