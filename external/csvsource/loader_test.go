package csvsource

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/player"
	"github.com/riskibarqy/afl-stats/internal/domain/playerstats"
	"github.com/riskibarqy/afl-stats/internal/domain/pricing"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/domain/statvalue"
	"github.com/riskibarqy/afl-stats/internal/usecase"
)

func TestReadRows(t *testing.T) {
	t.Parallel()

	input := "\ufeffplayer_id,,goals,goals\n1,x,3,4\n\n,,,\n2,y\n"
	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, source.Row{"player_id": "1", "column_2": "x", "goals": "3", "goals.1": "4"}, rows[0])
	assert.Equal(t, source.Row{"player_id": "2", "column_2": "y"}, rows[1])
}

func TestReadRowsEmptyInput(t *testing.T) {
	t.Parallel()

	rows, err := ReadRows(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read empty input: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestLoaderKeepsFileOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := make([]string, 0, 5)
	for i, name := range []string{"e.csv", "a.csv", "d.csv", "b.csv", "c.csv"} {
		path := filepath.Join(dir, name)
		body := "player_id,goals\n" + strings.Repeat("1,1\n", i+1)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		paths = append(paths, path)
	}

	loader := NewLoader(Config{Workers: 3})
	batches, err := loader.LoadFiles(context.Background(), source.KindStats, paths)
	require.NoError(t, err)
	require.Len(t, batches, len(paths))
	for i, b := range batches {
		assert.Equal(t, paths[i], b.Origin)
		assert.Equal(t, source.KindStats, b.Kind)
		assert.Len(t, b.Rows, i+1)
	}

	globbed := NewLoader(Config{Paths: map[source.Kind][]string{
		source.KindStats: {filepath.Join(dir, "*.csv")},
	}})
	batches, err = globbed.Load(context.Background(), source.KindStats)
	require.NoError(t, err)
	require.Len(t, batches, 5)
	assert.Equal(t, filepath.Join(dir, "a.csv"), batches[0].Origin)

	none, err := globbed.Load(context.Background(), source.KindPrice)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoaderMissingFile(t *testing.T) {
	t.Parallel()

	loader := NewLoader(Config{Paths: map[source.Kind][]string{
		source.KindDetails: {filepath.Join(t.TempDir(), "missing.csv")},
	}})
	if _, err := loader.Load(context.Background(), source.KindDetails); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteFactsReadsBackAsStats(t *testing.T) {
	t.Parallel()

	f := fact.Fact{
		PlayerID:  player.NewID(1001),
		FirstName: "Dustin",
		Surname:   "Martin",
		Team:      "Richmond",
		Opponent:  "Carlton",
		HomeTeam:  "Richmond",
		AwayTeam:  "Carlton",
		MatchID:   "m1",
		Date:      time.Date(2024, 3, 14, 8, 30, 0, 0, time.UTC),
		Season:    2024,
	}
	f.PlayerKey = fact.PlayerKey(f.PlayerID, f.FullName(), f.Team)
	f.Stats.Set(playerstats.Goals, statvalue.Number(3))
	f.Stats.Set(playerstats.Kicks, statvalue.Number(12))
	f.Price.Linked = true
	f.Price.Values[pricing.CurrentPrice] = statvalue.Number(731200)

	var buf bytes.Buffer
	require.NoError(t, WriteFacts(&buf, []fact.Fact{f}))

	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, len(FactHeader()), len(rows[0]))
	assert.Equal(t, "731200", rows[0]["current_price"])
	assert.Equal(t, "", rows[0]["behinds"])

	records, report := usecase.NewNormalizeService(nil, nil).NormalizeStats(context.Background(), rows)
	require.Len(t, records, 1)
	assert.True(t, report.Empty(), report.SummaryLine())
	assert.Equal(t, f.Date, records[0].Date)
	assert.Equal(t, 3.0, records[0].Stats.Get(playerstats.Goals).Or(0))
	assert.False(t, records[0].Stats.Get(playerstats.Behinds).IsPresent())
	assert.Equal(t, "Carlton", records[0].Opponent)
}
