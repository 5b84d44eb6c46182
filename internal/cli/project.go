package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/designlab-hq/designlab/pkg/client"
	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage design thinking projects",
	}

	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectGetCmd())
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectDeleteCmd())

	return cmd
}

func newProjectListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Projects().List(ctx, &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			if len(result.Data) == 0 {
				fmt.Println("No projects found")
				return nil
			}

			table := NewTable("ID", "NAME", "SECTOR", "STATUS", "PHASE", "COMPLETION")
			for _, p := range result.Data {
				sector := ""
				if p.Sector != nil {
					sector = *p.Sector
				}
				table.AddRow(
					strconv.FormatInt(p.ID, 10),
					truncate(p.Name, 40),
					truncate(sector, 20),
					formatStatus(p.Status),
					strconv.Itoa(p.CurrentPhase),
					fmt.Sprintf("%d%%", p.CompletionRate),
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

func newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[0])
			}

			ctx := context.Background()
			p, err := apiClient.Projects().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(p)
			}

			fmt.Printf("ID:         %d\n", p.ID)
			fmt.Printf("Name:       %s\n", p.Name)
			if p.Description != nil {
				fmt.Printf("Description: %s\n", *p.Description)
			}
			if p.Sector != nil {
				fmt.Printf("Sector:     %s\n", *p.Sector)
			}
			fmt.Printf("Status:     %s\n", p.Status)
			fmt.Printf("Phase:      %d of 5\n", p.CurrentPhase)
			fmt.Printf("Completion: %d%%\n", p.CompletionRate)
			fmt.Printf("Created:    %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newProjectCreateCmd() *cobra.Command {
	var name, description, sector string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = promptInput("Project name: ")
			}
			if name == "" {
				return fmt.Errorf("project name is required")
			}

			req := client.CreateProjectRequest{Name: name}
			if description != "" {
				req.Description = &description
			}
			if sector != "" {
				req.Sector = &sector
			}

			ctx := context.Background()
			p, err := apiClient.Projects().Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			fmt.Printf("Created project %d: %s\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&sector, "sector", "", "business sector")

	return cmd
}

func newProjectDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and all its entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[0])
			}

			if !force {
				answer := promptInput(fmt.Sprintf("Delete project %d and all its entities? (y/N): ", id))
				if answer != "y" && answer != "Y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			ctx := context.Background()
			if err := apiClient.Projects().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}

			fmt.Printf("Deleted project %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
