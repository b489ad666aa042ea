package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raizedd/compass/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "mongodb", cfg.DBKind)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 27017, cfg.DBPort)
	assert.Equal(t, 30*time.Second, cfg.ConnectBudget)
	assert.Equal(t, 100*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, 8*time.Second, cfg.MaxBackoff)
	assert.Equal(t, time.Duration(0), cfg.WatchInterval)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_KIND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5440")
	t.Setenv("TOPOLOGY_PROFILE", "standalone-postgres")
	t.Setenv("CONNECT_BUDGET", "45s")
	t.Setenv("WATCH_INTERVAL", "5m")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBKind)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 5440, cfg.DBPort)
	assert.Equal(t, "standalone-postgres", cfg.TopologyProfile)
	assert.Equal(t, 45*time.Second, cfg.ConnectBudget)
	assert.Equal(t, 5*time.Minute, cfg.WatchInterval)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
}

func TestLoad_BudgetTooShort(t *testing.T) {
	t.Setenv("CONNECT_BUDGET", "500ms")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CONNECT_BUDGET")
}

func TestLoad_BackoffOrdering(t *testing.T) {
	t.Setenv("INITIAL_BACKOFF", "2s")
	t.Setenv("MAX_BACKOFF", "1s")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_BACKOFF")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("INITIAL_BACKOFF", "soon")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "INITIAL_BACKOFF")
}
