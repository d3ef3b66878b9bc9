package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeService_NormalizeStats_ResolvesVintageColumns(t *testing.T) {
	t.Parallel()

	svc := NewNormalizeService(nil, nil)
	rows := []source.Row{
		{
			"playerId":         "1001",
			"player.givenName": "Dustin",
			"player.surname":   "Martin",
			"team.name":        "Tigers",
			"home.team.name":   "Richmond",
			"away.team.name":   "Carlton",
			"utcStartTime":     "2024-03-14T08:30:00.000+0000",
			"goals":            "3",
			"kicks":            "12",
			"handballs":        "8",
			"marks":            "abc",
		},
		{
			"player_id":       "1001",
			"player_name":     "Dustin Martin",
			"team":            "RICH",
			"match_home_team": "Collingwood",
			"match_away_team": "Richmond",
			"date":            "2024-03-21",
			"goals":           "0",
			"kicks":           "9",
		},
	}

	records, report := svc.NormalizeStats(context.Background(), rows)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "1001", first.PlayerID.String())
	assert.Equal(t, "Dustin Martin", first.FullName())
	assert.Equal(t, "Richmond", first.Team)
	assert.Equal(t, "Carlton", first.Opponent)
	assert.Equal(t, 2024, first.Season)
	assert.Equal(t, time.Date(2024, 3, 14, 8, 30, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 20.0, first.Stats.Get(playerstats.Disposals).Or(-1))
	assert.False(t, first.Stats.Get(playerstats.Marks).IsPresent())

	second := records[1]
	assert.Equal(t, "Dustin", second.FirstName)
	assert.Equal(t, "Martin", second.Surname)
	assert.Equal(t, "Collingwood", second.Opponent)
	assert.Equal(t, 0.0, second.Stats.Get(playerstats.Goals).Or(-1))
	assert.False(t, second.Stats.Get(playerstats.Disposals).IsPresent())

	require.Equal(t, 1, report.Len())
	issue := report.Issues[0]
	assert.Equal(t, reconcile.KindCoercionFailure, issue.Kind)
	assert.Equal(t, 1, issue.Row)
	assert.Equal(t, "marks", issue.Field)
	assert.Equal(t, "abc", issue.Value)
}

func TestNormalizeService_NormalizeStats_RejectsRowsWithoutLoadCriticalFields(t *testing.T) {
	t.Parallel()

	svc := NewNormalizeService(nil, nil)
	rows := []source.Row{
		{"player_id": "1", "team": "Geelong", "goals": "2"},
		{"player_id": "2", "date": "2024-04-01", "goals": "2"},
		{"team": "Geelong", "date": "2024-04-01", "goals": "2"},
		{"player_id": "3", "team": "Geelong", "date": "not a date", "goals": "2"},
		{"player_id": "4", "team": "Geelong", "date": "2024-04-01", "goals": "NA"},
		{"player_id": "5", "team": "Geelong", "date": " NA ", "Date": "2024-04-01", "goals": "1"},
	}

	records, report := svc.NormalizeStats(context.Background(), rows)
	if len(records) != 1 {
		t.Fatalf("unexpected record count: got=%d want=1", len(records))
	}
	if records[0].PlayerID.String() != "5" {
		t.Fatalf("unexpected surviving record: got=%s", records[0].PlayerID)
	}
	if got := report.Count(reconcile.KindSchemaMismatch); got != 5 {
		t.Fatalf("unexpected schema mismatch count: got=%d want=5 (%s)", got, report.SummaryLine())
	}
	for _, issue := range report.Issues {
		if issue.Row == 0 {
			t.Fatalf("issue without row position: %s", issue)
		}
	}
}

func TestNormalizeService_NormalizeDetails(t *testing.T) {
	t.Parallel()

	svc := NewNormalizeService(nil, nil)
	rows := []source.Row{
		{
			"player_id":     "1001.0",
			"first_name":    "Dustin",
			"surname":       "Martin",
			"team":          "Richmond",
			"season":        "2024",
			"height_cm":     "187",
			"weight_kg":     "",
			"date_of_birth": "1991-06-26",
			"retired":       "True",
			"draft_type":    "NULL",
		},
		{
			"full_name": "Zac Bailey",
			"team":      "Brisbane",
			"year":      "2024",
			"retired":   "maybe",
		},
		{
			"first_name": "No",
			"surname":    "Team",
			"season":     "2024",
		},
	}

	records, report := svc.NormalizeDetails(context.Background(), rows)
	require.Len(t, records, 2)

	dusty := records[0]
	assert.Equal(t, "1001", dusty.ID.String())
	assert.Equal(t, 187.0, dusty.HeightCM.Or(0))
	assert.False(t, dusty.WeightKG.IsPresent())
	assert.Equal(t, statvalue.FlagTrue, dusty.Retired)
	assert.Empty(t, dusty.DraftType)
	require.NotNil(t, dusty.DateOfBirth)
	assert.Equal(t, 1991, dusty.DateOfBirth.Year())

	bailey := records[1]
	assert.False(t, bailey.ID.Valid())
	assert.Equal(t, "Zac", bailey.FirstName)
	assert.Equal(t, "Bailey", bailey.Surname)
	assert.Equal(t, "Brisbane Lions", bailey.Team)
	assert.Equal(t, 2024, bailey.Season)
	assert.Equal(t, statvalue.FlagUnknown, bailey.Retired)

	assert.Equal(t, 1, report.Count(reconcile.KindCoercionFailure))
	assert.Equal(t, 1, report.Count(reconcile.KindSchemaMismatch))
}

func TestNormalizeService_NormalizePrices_ParsesFormattedStrings(t *testing.T) {
	t.Parallel()

	svc := NewNormalizeService(nil, nil)
	rows := []source.Row{
		{
			"Player":       "Marcus  Bontempelli",
			"Team":         "Bulldogs",
			"Current":      "$731,200",
			"Total Change": "-$12,000",
			"Change %":     "-63.00%",
			"scraped_date": "2024-05-01",
		},
		{
			"Player":       "Nick Daicos",
			"Team":         "Magpies",
			"Current":      "$690,100",
			"Change %":     "+6.00%",
			"scraped_date": "2024-05-01",
		},
		{
			"Player":  "No Date",
			"Current": "$100,000",
		},
	}

	records, report := svc.NormalizePrices(context.Background(), rows)
	require.Len(t, records, 2)

	bont := records[0]
	assert.Equal(t, "Marcus Bontempelli", bont.FullName)
	assert.Equal(t, "Western Bulldogs", bont.Team)
	assert.Equal(t, 731200.0, bont.Get(pricing.CurrentPrice).Or(0))
	assert.Equal(t, -12000.0, bont.Get(pricing.TotalChange).Or(0))
	assert.Equal(t, -63.0, bont.Get(pricing.ChangePercentage).Or(0))
	assert.False(t, bont.Get(pricing.ExpectedPrice).IsPresent())

	assert.Equal(t, 6.0, records[1].Get(pricing.ChangePercentage).Or(0))
	assert.Equal(t, 1, report.Count(reconcile.KindSchemaMismatch))
}

func TestNormalizeService_Normalize_UnknownKind(t *testing.T) {
	t.Parallel()

	svc := NewNormalizeService(nil, nil)
	_, err := svc.Normalize(context.Background(), nil, source.Kind("fixtures"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestNormalizeService_UsesConfiguredAliases(t *testing.T) {
	t.Parallel()

	aliases, err := source.ParseAliasYAML([]byte("stats:\n  date: [kickoff]\n"))
	require.NoError(t, err)

	svc := NewNormalizeService(aliases, nil)
	batch, err := svc.Normalize(context.Background(), []source.Row{
		{"player_id": "7", "team": "Hawthorn", "kickoff": "2023-08-12", "date": "2020-01-01", "goals": "1"},
	}, source.KindStats)
	require.NoError(t, err)
	require.Len(t, batch.Stats, 1)
	assert.Equal(t, 2023, batch.Stats[0].Season)
	assert.True(t, batch.Report.Empty())
}
