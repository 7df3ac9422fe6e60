package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/game"
	"github.com/talgya/ohi-sim/internal/persistence"
	"github.com/talgya/ohi-sim/internal/pillar"
)

func newInspectCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print a saved session snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := persistence.ReadSnapshot(args[0])
			if err != nil {
				return err
			}
			env, err := a.env(s.Seed)
			if err != nil {
				return err
			}
			if err := s.Validate(env); err != nil {
				slog.Warn("snapshot does not match current rules", "error", err)
			}
			printState(cmd, s, top)
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "rankings to show")
	return cmd
}

func printState(cmd *cobra.Command, s game.State, top int) {
	out := cmd.OutOrStdout()
	head := color.New(color.FgCyan, color.Bold)

	name := "no country selected"
	if s.Country != nil {
		name = fmt.Sprintf("%s (%s)", s.Country.Name, s.Country.ISO)
	}
	head.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "Phase %s, year %d, cycle %d, seed %d\n", s.Phase, s.Year, s.Cycle, s.Seed)
	fmt.Fprintf(out, "OHI %.2f (%s), rank %d\n\n", s.OHIScore, s.Stage(), s.Rank())

	pillars := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Pillar", "Score", "Allocated", "Spent"}),
	)
	for _, p := range pillar.All() {
		_ = pillars.Append([]string{
			p.Label(),
			fmt.Sprintf("%.1f", s.Pillars.Get(p)),
			fmt.Sprintf("%.0f", s.Budget.Allocated.Get(p)),
			fmt.Sprintf("%.0f", s.Budget.Spent.Get(p)),
		})
	}
	_ = pillars.Render()
	fmt.Fprintf(out, "Budget %.0f, carry-over %.0f\n\n", s.Budget.Total, s.Budget.CarryOver)

	policies := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Policy", "Level", "Status", "Invested"}),
	)
	for _, ps := range s.Policies {
		if ps.CurrentLevel == 0 && !ps.Status.Investable() {
			continue
		}
		_ = policies.Append([]string{
			ps.ID,
			fmt.Sprintf("%d", ps.CurrentLevel),
			string(ps.Status),
			fmt.Sprintf("%.0f", ps.TotalInvested),
		})
	}
	_ = policies.Render()

	if s.CurrentEvent != nil {
		head.Fprintf(out, "\nPending: %s\n", s.CurrentEvent.Title)
	}
	if len(s.ActiveEffects) > 0 {
		fmt.Fprintf(out, "\n%d active effects\n", len(s.ActiveEffects))
	}

	if len(s.Rankings) > 0 {
		fmt.Fprintln(out)
		ranks := tablewriter.NewTable(out,
			tablewriter.WithHeader([]string{"#", "Country", "OHI", "Change"}),
		)
		for _, r := range s.Rankings {
			if r.CurrentRank > top && !r.IsPlayer {
				continue
			}
			label := r.Name
			if r.IsPlayer {
				label += " (you)"
			}
			_ = ranks.Append([]string{
				fmt.Sprintf("%d", r.CurrentRank),
				label,
				fmt.Sprintf("%.2f", r.CurrentScore),
				fmt.Sprintf("%+d", r.RankDelta),
			})
		}
		_ = ranks.Render()
	}
}
