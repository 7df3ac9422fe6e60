package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/persistence"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List recorded sessions, or show one session's cycles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.Storage.DBPath
			}
			db, err := persistence.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 1 {
				return showSession(cmd, db, args[0])
			}
			return listSessions(cmd, db, limit)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "session database (empty = config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of sessions to list")
	return cmd
}

func listSessions(cmd *cobra.Command, db *persistence.DB, limit int) error {
	sessions, err := db.Sessions(limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded.")
		return nil
	}

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Session", "Country", "Difficulty", "Seed", "Started", "Final OHI", "Rank"}),
	)
	for _, s := range sessions {
		ohi, rank := "in progress", "-"
		if s.Finished() {
			ohi = fmt.Sprintf("%.2f", s.FinalOHI)
			rank = humanize.Ordinal(s.FinalRank)
		}
		_ = table.Append([]string{
			s.ID,
			s.CountryName,
			s.Difficulty,
			fmt.Sprintf("%d", s.Seed),
			humanize.Time(s.Started()),
			ohi,
			rank,
		})
	}
	return table.Render()
}

func showSession(cmd *cobra.Command, db *persistence.DB, id string) error {
	s, err := db.Session(id)
	if err != nil {
		return err
	}
	rows, err := db.Cycles(id)
	if err != nil {
		return err
	}
	achievements, err := db.Achievements(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), %s, seed %d, %d to %d\n",
		s.CountryName, s.Country, s.Difficulty, s.Seed, s.StartYear, s.EndYear)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Cycle", "Year", "OHI", "Rank", "Change", "Carry-over", "Effects"}),
	)
	for _, r := range rows {
		_ = table.Append([]string{
			fmt.Sprintf("%d", r.Cycle),
			fmt.Sprintf("%d", r.Year),
			fmt.Sprintf("%.2f", r.OHI),
			humanize.Ordinal(r.Rank),
			fmt.Sprintf("%+d", r.RankDelta),
			humanize.Commaf(r.CarryOver),
			fmt.Sprintf("%d", r.ActiveEffects),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, ach := range achievements {
		fmt.Fprintf(out, "  * %s (%d)\n", ach.Title, ach.Year)
	}
	if s.Finished() {
		fmt.Fprintf(out, "Finished with OHI %.2f, rank %s\n", s.FinalOHI, humanize.Ordinal(s.FinalRank))
	}
	return nil
}
