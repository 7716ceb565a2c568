// Package config loads the scanner's TOML configuration file, grounded on
// the load-or-default shape of the teacher's internal/config/guards.go
// (read file, unmarshal, return typed struct) but switched from YAML to
// TOML per the wire format this scanner's config contract specifies, and
// widened to substitute defaults plus a warning rather than fail on a
// missing or malformed file.
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// GeneralConfig carries scan-lifecycle timing knobs.
type GeneralConfig struct {
	ScanDurationHours  float64 `toml:"scan_duration_hours"`
	SnapshotIntervalMs int     `toml:"snapshot_interval_ms"`
	CrossCorrIntervalSec int   `toml:"cross_corr_interval_sec"`
	CrossCorrWindow    int     `toml:"cross_corr_window"`
}

// ValidationConfig carries the COS scorer's rejection thresholds.
type ValidationConfig struct {
	MinLagMs          float64 `toml:"min_lag_ms"`
	MaxLagMs          float64 `toml:"max_lag_ms"`
	MinCorrelation    float64 `toml:"min_correlation"`
	MaxLagCV          float64 `toml:"max_lag_cv"`
	MaxSpreadBps      float64 `toml:"max_spread_bps"`
	MinAlphaCostRatio float64 `toml:"min_alpha_cost_ratio"`
	MinDepthUSD       float64 `toml:"min_depth_usd"`
	MinLeadLagSamples int     `toml:"min_lead_lag_samples"`
}

// ScannerConfig is the top-level config file shape.
type ScannerConfig struct {
	General    GeneralConfig    `toml:"general"`
	Validation ValidationConfig `toml:"validation"`
	Universe   []string         `toml:"universe"`
}

// CrossCorrPeriod converts the configured interval into a time.Duration
// for the correlation driver's ticker.
func (c ScannerConfig) CrossCorrPeriod() time.Duration {
	return time.Duration(c.General.CrossCorrIntervalSec) * time.Second
}

// ScanDuration converts the configured hour count into a time.Duration
// for the deadline timer.
func (c ScannerConfig) ScanDuration() time.Duration {
	return time.Duration(c.General.ScanDurationHours * float64(time.Hour))
}

// Default returns the scanner's built-in fallback configuration, used
// whenever the configured file is missing or fails to parse.
func Default() ScannerConfig {
	return ScannerConfig{
		General: GeneralConfig{
			ScanDurationHours:    4,
			SnapshotIntervalMs:   1000,
			CrossCorrIntervalSec: 60,
			CrossCorrWindow:      1500,
		},
		Validation: ValidationConfig{
			MinLagMs:          50,
			MaxLagMs:          500,
			MinCorrelation:    0.7,
			MaxLagCV:          0.5,
			MaxSpreadBps:      20,
			MinAlphaCostRatio: 1.0,
			MinDepthUSD:       50_000,
			MinLeadLagSamples: 10,
		},
		Universe: []string{"BTCUSD", "ETHUSD"},
	}
}

// Load reads and parses a TOML scanner config from path. On any I/O or
// parse failure it logs a warning and returns Default() rather than
// erroring — per the spec's error-handling design, config problems never
// abort a scan.
func Load(path string) ScannerConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config file unreadable, using defaults")
		return Default()
	}

	var cfg ScannerConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config file malformed, using defaults")
		return Default()
	}

	if len(cfg.Universe) == 0 {
		log.Warn().Str("path", path).Msg("config has empty universe, using default universe")
		cfg.Universe = Default().Universe
	}
	return cfg
}
