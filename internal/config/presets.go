package config

import "fmt"

// Casual: policies keep paying off without funding, neglect is free, and
// events are rare.
func Casual() Config {
	cfg := Default()
	cfg.Difficulty = "casual"
	cfg.Scoring.SustainRate = 0.4
	cfg.Scoring.NeglectDecay = 0
	cfg.Events.TriggerChance = 0.1
	cfg.Competitors.TrendMax = 0.01
	return cfg
}

// Hard: unfunded policies fade, neglected pillars erode quickly, events are
// frequent and competitors improve faster.
func Hard() Config {
	cfg := Default()
	cfg.Difficulty = "hard"
	cfg.Scoring.SustainRate = 0.1
	cfg.Scoring.NeglectDecay = 1.5
	cfg.Events.TriggerChance = 0.45
	cfg.Competitors.TrendMax = 0.04
	cfg.Competitors.DriftAmplitude = 0.25
	return cfg
}

// WithPreset overlays the balance settings of a named preset onto c. Storage,
// data files, seed, log level and autoplay settings are kept.
func (c Config) WithPreset(name string) (Config, error) {
	var p Config
	switch name {
	case "normal":
		p = Default()
	case "casual":
		p = Casual()
	case "hard":
		p = Hard()
	default:
		return c, fmt.Errorf("unknown difficulty %q", name)
	}
	c.Difficulty = p.Difficulty
	c.Scoring = p.Scoring
	c.Events = p.Events
	c.Competitors = p.Competitors
	return c, nil
}
