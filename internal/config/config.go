// Package config loads simulation tuning from YAML with environment
// overrides and named difficulty presets.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/pillar"
)

type Config struct {
	Difficulty string `yaml:"difficulty"`
	Seed       int64  `yaml:"seed"` // 0 = random
	LogLevel   string `yaml:"log_level"`

	Rules       RulesConfig      `yaml:"rules"`
	Scoring     ScoringConfig    `yaml:"scoring"`
	Competitors CompetitorConfig `yaml:"competitors"`
	Events      EventsConfig     `yaml:"events"`
	Autoplay    AutoplayConfig   `yaml:"autoplay"`
	Storage     StorageConfig    `yaml:"storage"`
	Data        DataConfig       `yaml:"data"`
}

type RulesConfig struct {
	StartYear  int `yaml:"start_year"`
	EndYear    int `yaml:"end_year"`
	CycleYears int `yaml:"cycle_years"`
}

type ScoringConfig struct {
	Weights        pillar.Values `yaml:"weights"`
	SustainRate    float64       `yaml:"sustain_rate"`
	ReferenceSpend float64       `yaml:"reference_spend"`
	MaxSpendBoost  float64       `yaml:"max_spend_boost"`
	NeglectDecay   float64       `yaml:"neglect_decay"`
}

type CompetitorConfig struct {
	DriftAmplitude float64 `yaml:"drift_amplitude"`
	TrendMax       float64 `yaml:"trend_max"`
}

type EventsConfig struct {
	TriggerChance float64 `yaml:"trigger_chance"`
}

type AutoplayConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Speed     float64       `yaml:"speed"`
	MaxCycles int           `yaml:"max_cycles"` // 0 = play to the end
}

type StorageConfig struct {
	DBPath      string `yaml:"db_path"`
	SnapshotDir string `yaml:"snapshot_dir"`
}

// DataConfig points at replacement data files. Empty means built-in.
type DataConfig struct {
	PolicyFile string `yaml:"policy_file"`
	EventFile  string `yaml:"event_file"`
}

// Default returns the standard configuration.
func Default() Config {
	r := engine.DefaultRules()
	return Config{
		Difficulty: "normal",
		LogLevel:   "info",
		Rules: RulesConfig{
			StartYear:  r.StartYear,
			EndYear:    r.EndYear,
			CycleYears: r.CycleYears,
		},
		Scoring: ScoringConfig{
			Weights:        r.Weights,
			SustainRate:    r.SustainRate,
			ReferenceSpend: r.ReferenceSpend,
			MaxSpendBoost:  r.MaxSpendBoost,
			NeglectDecay:   r.NeglectDecay,
		},
		Competitors: CompetitorConfig{
			DriftAmplitude: r.DriftAmplitude,
			TrendMax:       r.TrendMax,
		},
		Events:   EventsConfig{TriggerChance: 0.25},
		Autoplay: AutoplayConfig{Interval: 2 * time.Second, Speed: 1},
		Storage: StorageConfig{
			DBPath:      "data/ohisim.db",
			SnapshotDir: "data/snapshots",
		},
	}
}

// Load reads path over the defaults. A difficulty named in the file picks the
// preset the file is read over, so explicit keys still win. Keys missing from
// the file keep their preset or default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var head struct {
		Difficulty string `yaml:"difficulty"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if head.Difficulty != "" {
		if cfg, err = cfg.WithPreset(head.Difficulty); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Rules.CycleYears <= 0 {
		errs = append(errs, fmt.Errorf("rules.cycle_years must be > 0, got %d", c.Rules.CycleYears))
	}
	if c.Rules.EndYear <= c.Rules.StartYear {
		errs = append(errs, fmt.Errorf("rules.end_year %d must be after start_year %d", c.Rules.EndYear, c.Rules.StartYear))
	}
	if !c.Scoring.Weights.NonNegative() || c.Scoring.Weights.Sum() <= 0 {
		errs = append(errs, errors.New("scoring.weights must be non-negative with a positive sum"))
	}
	if c.Scoring.SustainRate < 0 || c.Scoring.MaxSpendBoost < 0 || c.Scoring.NeglectDecay < 0 {
		errs = append(errs, errors.New("scoring rates must be non-negative"))
	}
	if c.Events.TriggerChance < 0 || c.Events.TriggerChance > 1 {
		errs = append(errs, fmt.Errorf("events.trigger_chance must be in [0,1], got %v", c.Events.TriggerChance))
	}
	if c.Autoplay.Interval <= 0 || c.Autoplay.Speed <= 0 {
		errs = append(errs, errors.New("autoplay interval and speed must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// EngineRules maps the configuration onto engine rules.
func (c Config) EngineRules() engine.Rules {
	return engine.Rules{
		StartYear:      c.Rules.StartYear,
		EndYear:        c.Rules.EndYear,
		CycleYears:     c.Rules.CycleYears,
		Weights:        c.Scoring.Weights,
		SustainRate:    c.Scoring.SustainRate,
		ReferenceSpend: c.Scoring.ReferenceSpend,
		MaxSpendBoost:  c.Scoring.MaxSpendBoost,
		NeglectDecay:   c.Scoring.NeglectDecay,
		DriftAmplitude: c.Competitors.DriftAmplitude,
		TrendMax:       c.Competitors.TrendMax,
		Seed:           c.Seed,
	}
}

// ParseLevel maps a log level name to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
