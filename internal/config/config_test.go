package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func setSession(t *testing.T) {
	t.Helper()
	t.Setenv("SORTIE_API_BASE_URL", "https://game.example.test/")
	t.Setenv("SORTIE_API_USER_ID", "1001")
	t.Setenv("SORTIE_API_COOKIE", "cookie")
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sortie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithSessionFromEnv(t *testing.T) {
	setSession(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "1001", cfg.API.UserID)
	assert.Equal(t, 3, cfg.Battle.MinAlive)
	assert.Equal(t, time.Second, cfg.Battle.StepDelay)
	assert.Equal(t, 6, cfg.Battle.CommonFormation)
	assert.Equal(t, 10*time.Minute, cfg.Battle.BadStatusWait)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}

func TestLoadMissingSessionFails(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	setSession(t)
	t.Setenv("SORTIE_BATTLE_MIN_ALIVE", "4")
	path := writeFile(t, `
api:
  timeout: 5s
  rate_limit: 0
battle:
  step_delay: 250ms
  min_alive: 2
  grind_mode: true
  pre_boss:
    "1-3": [4, 5]
catalog:
  path: /srv/data.sqlite3
telemetry:
  endpoint: http://localhost:4318
  sample_ratio: 0.25
  metrics_addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Battle.StepDelay)
	assert.Equal(t, 4, cfg.Battle.MinAlive, "environment wins over the file")
	assert.Equal(t, "/srv/data.sqlite3", cfg.Catalog.Path)
	assert.Equal(t, 0.25, cfg.Telemetry.Tracing().SampleRatio)

	engine := cfg.Battle.Engine()
	assert.True(t, engine.GrindMode)
	assert.Equal(t, []int{4, 5}, engine.PreBoss["1-3"])

	opts := cfg.API.Options()
	assert.Equal(t, rate.Inf, opts.RateLimit)
	assert.Equal(t, "cookie", opts.Cookie)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setSession(t)
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "battle:\n  speed: 3\n"},
		{"min alive above party size", "battle:\n  min_alive: 7\n"},
		{"formation out of range", "battle:\n  common_formation: 9\n"},
		{"bad pre-boss key", "battle:\n  pre_boss:\n    boss: [1]\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"sample ratio above one", "telemetry:\n  sample_ratio: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	setSession(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
