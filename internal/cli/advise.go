package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/advisor"
	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/persistence"
	"github.com/talgya/ohi-sim/internal/pillar"
)

func newAdviseCmd(a *app) *cobra.Command {
	var (
		apply bool
		out   string
	)
	cmd := &cobra.Command{
		Use:   "advise <snapshot>",
		Short: "Recommend a budget split and investments for a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := persistence.ReadSnapshot(args[0])
			if err != nil {
				return err
			}
			if s.Phase == game.PhaseEnded || s.Phase == game.PhaseSetup {
				return fmt.Errorf("nothing to advise in phase %s", s.Phase)
			}
			env, err := a.env(s.Seed)
			if err != nil {
				return err
			}
			store := game.NewStore(env)
			if err := store.Restore(s); err != nil {
				return err
			}

			adv := advisor.New(env.Catalog)
			snap, h, d := adv.Recommend(s)
			printAdvice(cmd, snap, h, d)
			if !apply {
				return nil
			}

			res := adv.Act(store)
			if out == "" {
				out = args[0]
			}
			if err := persistence.WriteSnapshot(out, res.State); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nApplied %d actions (%d rejected), wrote %s\n", res.Accepted, res.Rejected, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the plan and save the snapshot")
	cmd.Flags().StringVar(&out, "out", "", "where --apply writes (default: overwrite the input)")
	return cmd
}

func printAdvice(cmd *cobra.Command, snap advisor.Snapshot, h advisor.Health, d advisor.Decision) {
	w := cmd.OutOrStdout()
	level := color.New(color.FgGreen)
	switch h.CrisisLevel {
	case advisor.Critical:
		level = color.New(color.FgRed, color.Bold)
	case advisor.Warning:
		level = color.New(color.FgRed)
	case advisor.Watch:
		level = color.New(color.FgYellow)
	}
	fmt.Fprintf(w, "Year %d, OHI %.2f, rank %d: ", snap.Year, snap.OHI, snap.Rank)
	level.Fprintln(w, h.CrisisLevel)

	split := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Pillar", "Score", "Trend", "Share", "Allocate"}),
	)
	for _, p := range pillar.All() {
		_ = split.Append([]string{
			p.Label(),
			fmt.Sprintf("%.1f", snap.Pillars.Get(p)),
			fmt.Sprintf("%+.2f", snap.Trend.Get(p)),
			fmt.Sprintf("%.0f%%", h.Priority.Get(p)*100),
			fmt.Sprintf("%.0f", d.Allocation.Get(p)),
		})
	}
	_ = split.Render()

	if len(d.Investments) == 0 {
		fmt.Fprintln(w, "No open policies to invest in.")
		return
	}
	inv := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Invest in", "Points"}),
	)
	for _, i := range d.Investments {
		_ = inv.Append([]string{i.PolicyID, fmt.Sprintf("%.0f", i.Points)})
	}
	_ = inv.Render()
}
