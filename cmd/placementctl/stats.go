package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics for the stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.overview.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return printOverview(a.out, ov)
		},
	}
}

func printOverview(w io.Writer, ov model.Overview) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total visits\t%d\n", ov.TotalVisits)
	fmt.Fprintf(tw, "Unique companies\t%d\n", ov.UniqueCompanies)
	fmt.Fprintf(tw, "PPO visits\t%d\n", ov.PPOCount)

	sections := []struct {
		title  string
		counts []model.NamedCount
	}{
		{"Top companies", ov.TopCompanies},
		{"Visit types", ov.VisitTypes},
		{"Locations", ov.Locations},
	}
	for _, s := range sections {
		fmt.Fprintf(tw, "\n%s\t\n", s.title)
		for _, c := range s.counts {
			fmt.Fprintf(tw, "  %s\t%d\n", c.Name, c.Count)
		}
	}
	return tw.Flush()
}
