package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show the plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			plans, err := apiClient.Billing().ListPlans(ctx)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plans)
			}

			table := NewTable("ID", "NAME", "MONTHLY", "YEARLY", "PROJECTS", "COLLAB")
			for _, p := range plans {
				projects := "unlimited"
				if p.MaxProjects != nil {
					projects = fmt.Sprintf("%d", *p.MaxProjects)
				}
				collab := ""
				if p.HasCollaboration {
					collab = "yes"
				}
				table.AddRow(
					p.ID,
					p.Name,
					formatCents(p.PriceMonthly),
					formatCents(p.PriceYearly),
					projects,
					collab,
				)
			}
			table.Render()
			return nil
		},
	}
}

func formatCents(cents int64) string {
	if cents == 0 {
		return "free"
	}
	return fmt.Sprintf("R$%d.%02d", cents/100, cents%100)
}
