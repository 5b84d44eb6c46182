package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/designlab-hq/designlab/pkg/client"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration (admin accounts only)",
	}

	cmd.AddCommand(newAdminDashboardCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminLimitsCmd())
	cmd.AddCommand(newAdminAddonCmd())

	return cmd
}

func newAdminDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show platform-wide aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := apiClient.Admin().Dashboard(ctx)
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(d)
			}

			fmt.Println("Users by plan:")
			for _, key := range sortedKeys(d.UsersByPlan) {
				fmt.Printf("  %-12s %d\n", key, d.UsersByPlan[key])
			}
			fmt.Println("Projects by status:")
			for _, key := range sortedKeys(d.ProjectsByStatus) {
				fmt.Printf("  %-12s %d\n", key, d.ProjectsByStatus[key])
			}
			fmt.Println("Double Diamonds by phase:")
			for _, key := range sortedKeys(d.DoubleDiamondsByPhase) {
				fmt.Printf("  %-12s %d\n", key, d.DoubleDiamondsByPhase[key])
			}
			fmt.Printf("Exports (last 30 days): %d\n", d.ExportsLast30Days)
			return nil
		},
	}
}

func newAdminUsersCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List platform users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Admin().ListUsers(ctx, &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			table := NewTable("ID", "EMAIL", "USERNAME", "ROLE", "PLAN", "STATUS")
			for _, u := range result.Data {
				table.AddRow(
					strconv.FormatInt(u.ID, 10),
					truncate(u.Email, 40),
					truncate(u.Username, 20),
					u.Role,
					u.PlanID,
					u.SubscriptionStatus,
				)
			}
			table.Render()
			fmt.Printf("\nPage %d of %d (%d total)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")

	return cmd
}

func newAdminLimitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Manage per-user limit overrides",
	}

	cmd.AddCommand(newAdminLimitsGetCmd())
	cmd.AddCommand(newAdminLimitsSetCmd())

	return cmd
}

func newAdminLimitsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a user's limit overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}

			ctx := context.Background()
			limits, err := apiClient.Admin().GetCustomLimits(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to get limits: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(limits)
			}

			fmt.Printf("Max projects:            %s\n", formatOverride(limits.MaxProjects))
			fmt.Printf("Max DD projects:         %s\n", formatOverride(limits.MaxDoubleDiamondProjects))
			fmt.Printf("Max DD exports:          %s\n", formatOverride(limits.MaxDoubleDiamondExports))
			fmt.Printf("AI chat limit:           %s\n", formatOverride(limits.AIChatLimit))
			if limits.TrialEndsAt != nil {
				fmt.Printf("Trial ends:              %s\n", limits.TrialEndsAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newAdminLimitsSetCmd() *cobra.Command {
	var maxProjects, maxDD, maxExports, aiChat, trialDays int

	cmd := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Replace a user's limit overrides",
		Long: `Replace a user's limit overrides. Only flags that are set become
overrides; everything else falls back to the user's plan. Writes are full
replacements, so omitting a previously set flag clears that override.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}

			req := client.SetCustomLimitsRequest{TrialDays: trialDays}
			if cmd.Flags().Changed("max-projects") {
				req.MaxProjects = &maxProjects
			}
			if cmd.Flags().Changed("max-dd-projects") {
				req.MaxDoubleDiamondProjects = &maxDD
			}
			if cmd.Flags().Changed("max-dd-exports") {
				req.MaxDoubleDiamondExports = &maxExports
			}
			if cmd.Flags().Changed("ai-chat-limit") {
				req.AIChatLimit = &aiChat
			}

			ctx := context.Background()
			if err := apiClient.Admin().SetCustomLimits(ctx, userID, req); err != nil {
				return fmt.Errorf("failed to set limits: %w", err)
			}

			fmt.Printf("Updated limits for user %d\n", userID)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxProjects, "max-projects", 0, "override max projects")
	cmd.Flags().IntVar(&maxDD, "max-dd-projects", 0, "override max Double Diamond projects")
	cmd.Flags().IntVar(&maxExports, "max-dd-exports", 0, "override max Double Diamond exports")
	cmd.Flags().IntVar(&aiChat, "ai-chat-limit", 0, "override AI chat message limit")
	cmd.Flags().IntVar(&trialDays, "trial-days", 0, "expire the overrides after this many days (0 = no expiry)")

	return cmd
}

func newAdminAddonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addon",
		Short: "Manage per-user addon grants",
	}

	cmd.AddCommand(newAdminAddonListCmd())
	cmd.AddCommand(newAdminAddonGrantCmd())
	cmd.AddCommand(newAdminAddonRevokeCmd())

	return cmd
}

func newAdminAddonListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's addon grants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}

			ctx := context.Background()
			addons, err := apiClient.Admin().ListAddons(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to list addons: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(addons)
			}

			if len(addons) == 0 {
				fmt.Println("No addons")
				return nil
			}

			table := NewTable("ID", "KEY", "STATUS", "SOURCE", "EXPIRES")
			for _, a := range addons {
				expires := "-"
				if a.PeriodEnd != nil {
					expires = a.PeriodEnd.Format("2006-01-02")
				}
				table.AddRow(
					strconv.FormatInt(a.ID, 10),
					a.AddonKey,
					formatStatus(a.Status),
					a.Source,
					expires,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAdminAddonGrantCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "grant <user-id> <addon-key>",
		Short: "Grant an addon to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}

			ctx := context.Background()
			addon, err := apiClient.Admin().GrantAddon(ctx, userID, client.GrantAddonRequest{
				AddonKey: args[1],
				Days:     days,
			})
			if err != nil {
				return fmt.Errorf("failed to grant addon: %w", err)
			}

			fmt.Printf("Granted %s to user %d (grant %d)\n", addon.AddonKey, userID, addon.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "expire the grant after this many days (0 = open-ended)")

	return cmd
}

func newAdminAddonRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user-id> <addon-id>",
		Short: "Revoke an addon grant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}
			addonID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid addon ID: %s", args[1])
			}

			ctx := context.Background()
			if err := apiClient.Admin().RevokeAddon(ctx, userID, addonID); err != nil {
				return fmt.Errorf("failed to revoke addon: %w", err)
			}

			fmt.Printf("Revoked addon %d for user %d\n", addonID, userID)
			return nil
		},
	}
}

func formatOverride(v *int) string {
	if v == nil {
		return "(plan default)"
	}
	return strconv.Itoa(*v)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
