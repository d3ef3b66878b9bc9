package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionArg(t *testing.T) {
	v, err := parseVersionArg([]string{" 1 "})
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	_, err = parseVersionArg(nil)
	assert.Error(t, err)

	_, err = parseVersionArg([]string{"-3"})
	assert.Error(t, err)
}

func TestIgnoreNoChange(t *testing.T) {
	assert.NoError(t, ignoreNoChange(migrate.ErrNoChange))
	assert.NoError(t, ignoreNoChange(nil))

	boom := errors.New("boom")
	assert.ErrorIs(t, ignoreNoChange(boom), boom)
}

func TestNormalizeDBURL(t *testing.T) {
	got := normalizeDBURL("postgres://localhost/afl_stats", true)
	assert.Equal(t, "postgres://localhost/afl_stats?disable_prepared_binary_result=yes", got)
	assert.Equal(t, "postgres://localhost/afl_stats", normalizeDBURL("postgres://localhost/afl_stats", false))
}

func TestResolveMigrationsDir_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestRunDown_RejectsBadSteps(t *testing.T) {
	err := runDown(nil, []string{"zero"})
	require.Error(t, err)
}
