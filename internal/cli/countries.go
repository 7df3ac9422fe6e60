package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talgya/ohi-sim/internal/country"
	"github.com/talgya/ohi-sim/internal/pillar"
)

func newCountriesCmd(a *app) *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the playable countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"ISO", "Country", "Region", "Population", "GDP", "Health %", "Budget", "OHI", "Stage"}),
			)
			n := 0
			for _, p := range country.Samples() {
				if region != "" && !strings.EqualFold(p.Region, region) {
					continue
				}
				p = p.WithDerivedOHI()
				_ = table.Append([]string{
					p.ISO,
					p.Name,
					p.Region,
					humanize.Commaf(p.Population) + "m",
					"$" + humanize.Commaf(p.GDP) + "bn",
					fmt.Sprintf("%.1f", p.HealthExpenditurePct),
					humanize.Comma(int64(country.BudgetPoints(p))),
					fmt.Sprintf("%.2f", p.InitialOHI),
					pillar.StageFor(p.InitialOHI).String(),
				})
				n++
			}
			if n == 0 {
				return fmt.Errorf("no countries in region %q", region)
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "only list countries in this region")
	return cmd
}
