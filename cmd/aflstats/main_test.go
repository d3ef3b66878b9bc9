package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsCSV = `player_id,first_name,surname,team,opponent,date,goals,disposals
1,Dustin,Martin,Richmond,Carlton,2024-03-14,3,20
1,Dustin,Martin,Richmond,Geelong Cats,2024-03-21,1,22
2,Patrick,Cripps,Carlton,Richmond,2024-03-14,0,31
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_ENABLED", "false")

	dir := t.TempDir()
	stats := filepath.Join(dir, "stats.csv")
	require.NoError(t, os.WriteFile(stats, []byte(statsCSV), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--stats", stats))
	err := cmd.Execute()
	return out.String(), err
}

func TestTopCommand_PrintsReportAndRanking(t *testing.T) {
	out, err := runCLI(t, "top", "--stat", "goals", "--n", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "facts=3"), lines[0])
	assert.Contains(t, lines[3], "Dustin Martin")
}

func TestAggregateCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "aggregate", "--group-by", "team", "--stat", "disposals", "--mode", "avg", "--json")
	require.NoError(t, err)

	var payload struct {
		Load struct {
			Facts int `json:"facts"`
		} `json:"load"`
		Data struct {
			Mode string `json:"mode"`
			Rows []struct {
				Key   string   `json:"key"`
				Value *float64 `json:"value"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &payload))
	assert.Equal(t, 3, payload.Load.Facts)
	assert.Equal(t, "average", payload.Data.Mode)
	require.Len(t, payload.Data.Rows, 2)
	assert.Equal(t, "Richmond", payload.Data.Rows[0].Key)
	require.NotNil(t, payload.Data.Rows[0].Value)
	assert.InDelta(t, 21, *payload.Data.Rows[0].Value, 1e-9)
}

func TestAggregateCommand_UnknownStat(t *testing.T) {
	_, err := runCLI(t, "aggregate", "--stat", "handpasses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}

func TestIngestCommand_Export(t *testing.T) {
	export := filepath.Join(t.TempDir(), "facts.csv")
	out, err := runCLI(t, "ingest", "--export", export)
	require.NoError(t, err)
	assert.Contains(t, out, "facts")

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 4)
}
