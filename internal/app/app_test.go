package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/afl-stats/internal/config"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		HTTPAddr:        ":0",
		DetailsPaths:    []string{writeFile(t, dir, "details.csv", "player_id,first_name,surname,team,season\n1,Dustin,Martin,Richmond,2024\n")},
		StatsPaths:      []string{writeFile(t, dir, "stats.csv", "player_id,first_name,surname,team,date,opponent,goals,disposals\n1,Dustin,Martin,Richmond,2024-03-14,Carlton,3,20\n")},
		LoaderWorkers:   2,
		DefaultMinGames: query.DefaultMinGames,
		DefaultStat:     query.DefaultStat,
	}
}

func TestNew_StartIngestsFileSources(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Start(ctx))
	assert.Equal(t, 1, a.Session.Dataset().Len())

	ds, ok, err := a.Facts.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Session.Dataset().ID, ds.ID)
}

func TestNew_RestoresBeforeIngesting(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.CacheEnabled = true
	cfg.CacheTTL = time.Minute
	cfg.CacheMaxEntries = 8

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Start(ctx))
	first := a.Session.Dataset().ID

	require.NoError(t, a.Start(ctx))
	assert.Equal(t, first, a.Session.Dataset().ID)
}

func TestNew_RejectsMissingAliasFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.AliasFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestHTTPServer_ServesHealth(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	require.NoError(t, a.Start(ctx))

	srv, err := a.HTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
