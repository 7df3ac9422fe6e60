package config

import (
	"log/slog"
	"os"
	"strconv"
)

// ApplyEnv overrides c from OHISIM_* environment variables. Malformed values
// are logged and ignored.
func (c Config) ApplyEnv() Config {
	if mode := os.Getenv("OHISIM_DIFFICULTY"); mode != "" {
		if p, err := c.WithPreset(mode); err == nil {
			c = p
		} else {
			slog.Warn("ignoring OHISIM_DIFFICULTY", "error", err)
		}
	}
	if v := envInt64("OHISIM_SEED"); v != 0 {
		c.Seed = v
	}
	c.LogLevel = envOrDefault("OHISIM_LOG_LEVEL", c.LogLevel)
	c.Storage.DBPath = envOrDefault("OHISIM_DB", c.Storage.DBPath)
	c.Storage.SnapshotDir = envOrDefault("OHISIM_SNAPSHOT_DIR", c.Storage.SnapshotDir)
	c.Data.PolicyFile = envOrDefault("OHISIM_POLICY_FILE", c.Data.PolicyFile)
	c.Data.EventFile = envOrDefault("OHISIM_EVENT_FILE", c.Data.EventFile)
	c.Rules.StartYear = envIntOrDefault("OHISIM_START_YEAR", c.Rules.StartYear)
	c.Rules.EndYear = envIntOrDefault("OHISIM_END_YEAR", c.Rules.EndYear)
	if v := envFloat("OHISIM_SPEED"); v > 0 {
		c.Autoplay.Speed = v
	}
	if v := envFloat("OHISIM_EVENT_CHANCE"); v >= 0 && os.Getenv("OHISIM_EVENT_CHANCE") != "" {
		c.Events.TriggerChance = v
	}
	return c
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring malformed integer", "key", key, "value", v)
	}
	return defaultVal
}

func envInt64(key string) int64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed integer", "key", key, "value", v)
		return 0
	}
	return n
}

func envFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return -1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring malformed number", "key", key, "value", v)
		return -1
	}
	return f
}
