package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			user, err := apiClient.Me(ctx)
			if err != nil {
				return fmt.Errorf("failed to get account info: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{"user": user}
				if projects, err := apiClient.Projects().List(ctx, nil); err == nil {
					summary["projects"] = projects.TotalItems
				}
				if diamonds, err := apiClient.DoubleDiamond().List(ctx, nil); err == nil {
					summary["double_diamonds"] = diamonds.TotalItems
				}
				return printOutput(summary)
			}

			fmt.Println("DesignLab Account")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Email:           %s\n", user.Email)
			fmt.Printf("  Plan:            %s (%s)\n", user.PlanID, user.SubscriptionStatus)
			fmt.Printf("  AI chat used:    %d\n", user.AIChatUsed)

			if projects, err := apiClient.Projects().List(ctx, nil); err != nil {
				fmt.Printf("  Projects:        (error: %v)\n", err)
			} else {
				fmt.Printf("  Projects:        %d\n", projects.TotalItems)
			}

			if diamonds, err := apiClient.DoubleDiamond().List(ctx, nil); err != nil {
				fmt.Printf("  Double Diamonds: (error: %v)\n", err)
			} else {
				completed := 0
				for _, d := range diamonds.Data {
					if d.IsCompleted {
						completed++
					}
				}
				fmt.Printf("  Double Diamonds: %d (%d completed on this page)\n", diamonds.TotalItems, completed)
			}

			return nil
		},
	}
}
