package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Raizedd/compass/internal/config"
	"github.com/Raizedd/compass/internal/connection"
	"github.com/Raizedd/compass/internal/orchestrator"
)

func baseConfig() *config.Config {
	return &config.Config{
		DBKind:         "mongodb",
		DBHost:         "localhost",
		DBPort:         27020,
		ConnectBudget:  5 * time.Second,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
	}
}

func TestNewOrchestrator(t *testing.T) {
	orch := orchestrator.NewOrchestrator(baseConfig())

	assert.NotNil(t, orch)
}

func TestOrchestrator_Start_UnsupportedKind(t *testing.T) {
	cfg := baseConfig()
	cfg.DBKind = "oracle"

	orch := orchestrator.NewOrchestrator(cfg)
	err := orch.Start(context.Background())

	assert.ErrorIs(t, err, connection.ErrUnsupportedKind)
}

func TestOrchestrator_Start_MissingFixtureFile(t *testing.T) {
	cfg := baseConfig()
	cfg.FixturePath = "/nonexistent/standalone.yaml"

	orch := orchestrator.NewOrchestrator(cfg)
	err := orch.Start(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fixture")
}

func TestOrchestrator_Stop_SafeWhenNotStarted(t *testing.T) {
	orch := orchestrator.NewOrchestrator(baseConfig())

	assert.NoError(t, orch.Stop())
}

func TestOrchestrator_Run_RequiresWatchInterval(t *testing.T) {
	orch := orchestrator.NewOrchestrator(baseConfig())

	err := orch.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WATCH_INTERVAL")
}
