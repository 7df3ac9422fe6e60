package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/advisor"
	"github.com/talgya/ohi-sim/internal/autoplay"
	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/entropy"
	"github.com/talgya/ohi-sim/internal/events"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/persistence"
)

type playOptions struct {
	country  string
	seed     int64
	cycles   int
	interval time.Duration
	speed    float64
	noEvents bool
	dbPath   string
	noRecord bool
	snapshot string
}

func newPlayCmd(a *app) *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a session with the built-in advisor",
		Long: `Play a full session headless. The advisor allocates the budget, invests in
policies and answers events; the auto-advance timer moves the clock. The run
is recorded to the session database unless --no-record is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.country, "country", "", "ISO code of the country to play (see 'ohisim countries')")
	f.Int64Var(&o.seed, "seed", 0, "random seed (0 = config or random)")
	f.IntVar(&o.cycles, "cycles", 0, "stop after this many cycles (0 = config or full game)")
	f.DurationVar(&o.interval, "interval", 0, "delay between steps at speed 1 (0 = config)")
	f.Float64Var(&o.speed, "speed", 0, "auto-advance speed multiplier (0 = config)")
	f.BoolVar(&o.noEvents, "no-events", false, "play without random events")
	f.StringVar(&o.dbPath, "db", "", "session database (empty = config)")
	f.BoolVar(&o.noRecord, "no-record", false, "do not write to the session database")
	f.StringVar(&o.snapshot, "snapshot", "", "write the final state to this file")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func (a *app) play(cmd *cobra.Command, o playOptions) error {
	prof, ok := country.Lookup(o.country)
	if !ok {
		return fmt.Errorf("unknown country %q", o.country)
	}
	env, err := a.env(o.seed)
	if err != nil {
		return err
	}
	if o.interval <= 0 {
		o.interval = a.cfg.Autoplay.Interval
	}
	if o.speed <= 0 {
		o.speed = a.cfg.Autoplay.Speed
	}
	if o.cycles <= 0 {
		o.cycles = a.cfg.Autoplay.MaxCycles
	}
	if o.dbPath == "" {
		o.dbPath = a.cfg.Storage.DBPath
	}

	store := game.NewStore(env)
	for _, act := range []game.Action{
		game.SelectCountry{Profile: prof},
		game.StartGame{},
		game.SetAutoAdvance{Enabled: true, Speed: o.speed},
	} {
		if _, err := store.Dispatch(act); err != nil {
			return err
		}
	}

	adv := advisor.New(env.Catalog)
	runner := &autoplay.Runner{
		Store:     store,
		Planner:   adv,
		Decider:   adv,
		Interval:  o.interval,
		MaxCycles: o.cycles,
	}
	if !o.noEvents {
		evs, err := a.deckEvents()
		if err != nil {
			return err
		}
		runner.Events = events.NewDeck(evs, entropy.New(env.Rules.Seed), a.cfg.Events.TriggerChance)
	}

	var (
		rec     *persistence.Recorder
		recDone chan error
		stopRec context.CancelFunc = func() {}
	)
	if !o.noRecord {
		if err := ensureDir(filepath.Dir(o.dbPath)); err != nil {
			return err
		}
		db, err := persistence.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		rec = persistence.NewRecorder(db, a.cfg.Difficulty)
		var recCtx context.Context
		recCtx, stopRec = context.WithCancel(context.Background())
		recDone = make(chan error, 1)
		go func() { recDone <- rec.Run(recCtx, store) }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("session starting", "country", prof.ISO, "seed", env.Rules.Seed, "interval", o.interval, "speed", o.speed)
	runErr := runner.Run(ctx)

	if rec != nil {
		stopRec()
		if err := <-recDone; err != nil {
			slog.Error("recording failed", "error", err)
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	final := store.State()
	if o.snapshot != "" {
		if err := persistence.WriteSnapshot(o.snapshot, final); err != nil {
			return err
		}
		slog.Info("snapshot written", "path", o.snapshot)
	}

	out := cmd.OutOrStdout()
	printSummary(out, final)
	if log := adv.Memory.Format(5); log != "" {
		fmt.Fprintf(out, "\nAdvisor, last cycles:\n%s", log)
	}
	if rec != nil {
		fmt.Fprintf(out, "\nSession %s recorded to %s\n", rec.SessionID(), o.dbPath)
	}
	return nil
}

// printSummary renders the per-cycle history and the final standing.
func printSummary(out io.Writer, s game.State) {
	title := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	name := "no country"
	if s.Country != nil {
		name = fmt.Sprintf("%s (%s)", s.Country.Name, s.Country.ISO)
	}
	title.Fprintf(out, "%s, %d to %d\n", name, s.StartYear, s.Year)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Year", "OHI", "Rank", "Change", "Gov", "Hazard", "Health", "Restor.", "Effects"}),
	)
	for _, r := range s.History {
		change := "="
		switch {
		case r.RankDelta > 0:
			change = good.Sprintf("+%d", r.RankDelta)
		case r.RankDelta < 0:
			change = bad.Sprintf("%d", r.RankDelta)
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", r.Year),
			fmt.Sprintf("%.2f", r.OHIScore),
			humanize.Ordinal(r.Rank),
			change,
			fmt.Sprintf("%.1f", r.Pillars.Governance),
			fmt.Sprintf("%.1f", r.Pillars.HazardControl),
			fmt.Sprintf("%.1f", r.Pillars.HealthVigilance),
			fmt.Sprintf("%.1f", r.Pillars.Restoration),
			fmt.Sprintf("%d", r.ActiveEffects),
		})
	}
	_ = table.Render()

	st := s.Statistics
	fmt.Fprintf(out, "\nFinal OHI %.2f (%s), rank %s of %d, best %s\n",
		s.OHIScore, s.Stage(), humanize.Ordinal(s.Rank()), len(s.Rankings), humanize.Ordinal(st.BestRank))
	fmt.Fprintf(out, "Invested %s points in %d decisions, %d policies maxed\n",
		humanize.Commaf(st.PointsInvested), st.Investments, st.PoliciesMaxed)
	fmt.Fprintf(out, "Events: %d handled, %d dismissed, %d expired",
		st.EventsHandled, st.EventsDismissed, st.EventsExpired)
	if st.ForgivenCost > 0 {
		fmt.Fprintf(out, ", %s points forgiven", humanize.Commaf(st.ForgivenCost))
	}
	fmt.Fprintln(out)

	if len(st.Achievements) > 0 {
		title.Fprintln(out, "\nAchievements")
		for _, ach := range st.Achievements {
			good.Fprintf(out, "  * %s", ach.Title)
			fmt.Fprintf(out, " (%d): %s\n", ach.Year, ach.Description)
		}
	}
}
