package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Equal(t, Default().General.CrossCorrWindow, cfg.General.CrossCorrWindow)
}

func TestLoadMalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0644))

	cfg := Load(path)
	require.Equal(t, Default().Universe, cfg.Universe)
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "good.toml")
	contents := `
universe = ["BTCUSD", "SOLUSD"]

[general]
scan_duration_hours = 2.5
snapshot_interval_ms = 500
cross_corr_interval_sec = 30
cross_corr_window = 2000

[validation]
min_lag_ms = 10
max_lag_ms = 300
min_correlation = 0.8
max_lag_cv = 0.4
max_spread_bps = 15
min_alpha_cost_ratio = 1.2
min_depth_usd = 25000
min_lead_lag_samples = 5
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg := Load(path)
	require.Equal(t, []string{"BTCUSD", "SOLUSD"}, cfg.Universe)
	require.Equal(t, 2000, cfg.General.CrossCorrWindow)
	require.Equal(t, 0.8, cfg.Validation.MinCorrelation)
}
