// Package cli is the ohisim command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/config"
	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/engine"
	"github.com/talgya/ohi-sim/internal/entropy"
	"github.com/talgya/ohi-sim/internal/events"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/policy"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	cfgPath  string
	logLevel string
	cfg      config.Config
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ohisim",
		Short: "Occupational health policy strategy simulation",
		Long: `ohisim runs a national occupational safety and health programme from
2025 to 2050. Invest in policies across four pillars (governance, hazard
control, health vigilance, restoration), respond to events, and climb the
OHI rankings.

Start a headless session played by the built-in advisor:
  ohisim play --country DEU

Review it afterwards:
  ohisim history`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(newCountriesCmd(a))
	root.AddCommand(newPoliciesCmd(a))
	root.AddCommand(newPlayCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newAdviseCmd(a))
	root.AddCommand(newEventsCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		var err error
		if cfg, err = config.Load(a.cfgPath); err != nil {
			return err
		}
	}
	cfg = cfg.ApplyEnv()
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// catalog returns the configured policy tree.
func (a *app) catalog() (*policy.Catalog, error) {
	if a.cfg.Data.PolicyFile == "" {
		return policy.Default(), nil
	}
	return policy.Load(a.cfg.Data.PolicyFile)
}

// deckEvents returns the configured event deck contents.
func (a *app) deckEvents() ([]engine.GameEvent, error) {
	if a.cfg.Data.EventFile == "" {
		return events.Default(), nil
	}
	return events.Load(a.cfg.Data.EventFile)
}

// env builds a session context. seed overrides the configured seed when
// non-zero.
func (a *app) env(seed int64) (game.Env, error) {
	cat, err := a.catalog()
	if err != nil {
		return game.Env{}, err
	}
	rules := a.cfg.EngineRules()
	if seed != 0 {
		rules.Seed = seed
	}
	if rules.Seed == 0 {
		rules.Seed = entropy.RandomSeed()
	}
	return game.NewEnv(cat, country.Samples(), rules), nil
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}
