package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/pillar"
)

func newPoliciesCmd(a *app) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Show the policy tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			defs := cat.Definitions()
			if only != "" {
				p, err := pillar.Parse(only)
				if err != nil {
					return err
				}
				defs = cat.ForPillar(p)
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"ID", "Name", "Pillar", "Levels", "Unlocks", "Requires", "Cost", "Impact"}),
			)
			for _, d := range defs {
				req := strings.Join(d.Prerequisites, ", ")
				if req == "" {
					req = "-"
				}
				_ = table.Append([]string{
					d.ID,
					d.Name,
					d.Pillar.Label(),
					fmt.Sprintf("%d", d.MaxLevel),
					fmt.Sprintf("%d", d.UnlockYear),
					req,
					fmt.Sprintf("%.0f", d.SuggestedCost),
					fmt.Sprintf("%+.1f", d.Impact),
				})
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&only, "pillar", "", "only show one pillar (governance, hazardControl, healthVigilance, restoration)")
	return cmd
}
