package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/events"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and validate event decks",
	}
	cmd.AddCommand(newEventsListCmd(a))
	cmd.AddCommand(newEventsValidateCmd())
	return cmd
}

func newEventsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured event deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := a.deckEvents()
			if err != nil {
				return err
			}
			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"ID", "Title", "Severity", "Choices", "Deadline", "Default"}),
			)
			for _, ev := range deck {
				_ = table.Append([]string{
					ev.ID,
					ev.Title,
					string(ev.Severity),
					fmt.Sprintf("%d", len(ev.Choices)),
					fmt.Sprintf("%d", ev.Deadline),
					ev.DefaultChoice().ID,
				})
			}
			return table.Render()
		},
	}
}

func newEventsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check event deck files against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := color.New(color.FgGreen)
			bad := color.New(color.FgRed)
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err == nil {
					err = events.Validate(data)
				}
				if err != nil {
					failed++
					bad.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				ok.Fprintf(out, "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d decks invalid", failed, len(args))
			}
			return nil
		},
	}
}
