package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 600, cfg.Convergence.SettleMs)
	assert.Equal(t, 3, cfg.Convergence.StableRounds)
	assert.Equal(t, 100, cfg.Convergence.MaxAttempts)
	assert.Equal(t, 200, cfg.Extraction.DedupPrefix)
	assert.Equal(t, 50, cfg.Extraction.ReportMinChars)
	assert.Equal(t, "Gemini Conversation", cfg.DefaultTitle)
	assert.NotEmpty(t, cfg.Selectors.Scroller)
	assert.NotEmpty(t, cfg.Selectors.TurnContainer)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatscribe.yaml")
	yaml := `
convergence:
  settle_ms: 250
  stable_rounds: 5
selectors:
  turn_container: "div.exchange"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Convergence.SettleMs)
	assert.Equal(t, 5, cfg.Convergence.StableRounds)
	assert.Equal(t, "div.exchange", cfg.Selectors.TurnContainer)
	// Untouched settings keep their defaults.
	assert.Equal(t, 100, cfg.Convergence.MaxAttempts)
	assert.Equal(t, "user-query", cfg.Selectors.UserQuery)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSettleInterval(t *testing.T) {
	assert.Equal(t, 600*time.Millisecond, Default().Convergence.SettleInterval())
	assert.Equal(t, 600*time.Millisecond, Convergence{}.SettleInterval())
	assert.Equal(t, 50*time.Millisecond, Convergence{SettleMs: 50}.SettleInterval())
}
