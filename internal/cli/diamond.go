package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/designlab-hq/designlab/pkg/client"
	"github.com/spf13/cobra"
)

func newDiamondCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diamond",
		Aliases: []string{"dd", "double-diamond"},
		Short:   "Manage AI-guided Double Diamond projects",
	}

	cmd.AddCommand(newDiamondListCmd())
	cmd.AddCommand(newDiamondGetCmd())
	cmd.AddCommand(newDiamondCreateCmd())
	cmd.AddCommand(newDiamondGenerateCmd())
	cmd.AddCommand(newDiamondExportCmd())
	cmd.AddCommand(newDiamondDeleteCmd())

	return cmd
}

func newDiamondListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your Double Diamond projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.DoubleDiamond().List(ctx, &client.ListOptions{
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
				fmt.Println("No Double Diamond projects found")
				return nil
			}

			table := NewTable("ID", "NAME", "SECTOR", "PHASE", "GENERATIONS", "DONE")
			for _, p := range result.Data {
				done := ""
				if p.IsCompleted {
					done = "yes"
				}
				table.AddRow(
					strconv.FormatInt(p.ID, 10),
					truncate(p.Name, 40),
					truncate(p.Sector, 20),
					formatPhase(p.CurrentPhase, p.CompletionPercentage),
					strconv.Itoa(p.GenerationCount),
					done,
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

func newDiamondGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a Double Diamond project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[0])
			}

			ctx := context.Background()
			p, err := apiClient.DoubleDiamond().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(p)
			}

			fmt.Printf("ID:          %d\n", p.ID)
			fmt.Printf("Name:        %s\n", p.Name)
			fmt.Printf("Sector:      %s\n", p.Sector)
			fmt.Printf("Language:    %s\n", p.Language)
			fmt.Printf("Phase:       %s\n", formatPhase(p.CurrentPhase, p.CompletionPercentage))
			fmt.Printf("Generations: %d\n", p.GenerationCount)
			fmt.Printf("Completed:   %t\n", p.IsCompleted)
			return nil
		},
	}
}

func newDiamondCreateCmd() *cobra.Command {
	var name, sector, audience, problem, language string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Double Diamond project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = promptInput("Project name: ")
			}
			if sector == "" {
				sector = promptInput("Sector: ")
			}
			if name == "" || sector == "" {
				return fmt.Errorf("name and sector are required")
			}

			req := client.CreateDoubleDiamondRequest{
				Name:     name,
				Sector:   sector,
				Language: language,
			}
			if audience != "" {
				req.TargetAudience = &audience
			}
			if problem != "" {
				req.ProblemStatement = &problem
			}

			ctx := context.Background()
			p, err := apiClient.DoubleDiamond().Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			fmt.Printf("Created Double Diamond project %d: %s\n", p.ID, p.Name)
			fmt.Println("Run 'designlab diamond generate discover' to start the first phase")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&sector, "sector", "", "business sector")
	cmd.Flags().StringVar(&audience, "audience", "", "target audience")
	cmd.Flags().StringVar(&problem, "problem", "", "problem statement")
	cmd.Flags().StringVar(&language, "language", "", "content language (e.g. en, pt-BR)")

	return cmd
}

func newDiamondGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "generate <phase> <id>",
		Short:     "Run an AI generation phase (discover, define, develop, deliver, dfv)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"discover", "define", "develop", "deliver", "dfv"},
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := args[0]
			switch phase {
			case "discover", "define", "develop", "deliver", "dfv":
			default:
				return fmt.Errorf("unknown phase %q: expected discover, define, develop, deliver or dfv", phase)
			}

			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[1])
			}

			fmt.Printf("Generating %s phase...\n", phase)
			ctx := context.Background()
			p, err := apiClient.DoubleDiamond().Generate(ctx, id, phase)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Printf("Done. Project is now at %s\n", formatPhase(p.CurrentPhase, p.CompletionPercentage))
			if p.IsCompleted {
				fmt.Println("All phases complete. Run 'designlab diamond export' to convert it into a full project")
			}
			return nil
		},
	}
}

func newDiamondExportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Convert a completed Double Diamond project into a five-phase project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[0])
			}

			ctx := context.Background()
			result, err := apiClient.DoubleDiamond().Export(ctx, id, name)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Exported to project %d\n", result.ProjectID)
			failed := 0
			for _, step := range result.Steps {
				if !step.OK {
					failed++
					fmt.Printf("  [-] %s: %s\n", step.Name, step.Error)
				}
			}
			if failed == 0 {
				fmt.Printf("All %d steps succeeded\n", len(result.Steps))
			} else {
				fmt.Printf("%d of %d steps failed; the project was still created\n", failed, len(result.Steps))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the exported project (defaults to the source name)")

	return cmd
}

func newDiamondDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a Double Diamond project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project ID: %s", args[0])
			}

			if !force {
				answer := promptInput(fmt.Sprintf("Delete Double Diamond project %d? (y/N): ", id))
				if answer != "y" && answer != "Y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			ctx := context.Background()
			if err := apiClient.DoubleDiamond().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}

			fmt.Printf("Deleted Double Diamond project %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
