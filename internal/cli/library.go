package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/designlab-hq/designlab/pkg/client"
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Browse the content library",
	}

	cmd.AddCommand(newLibraryListCmd())
	cmd.AddCommand(newLibraryGetCmd())

	return cmd
}

func newLibraryListCmd() *cobra.Command {
	var kind string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Library().List(ctx, &client.LibraryListOptions{
				ListOptions: client.ListOptions{Page: page, PageSize: pageSize},
				Kind:        kind,
			})
			if err != nil {
				return fmt.Errorf("failed to list library items: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			if len(result.Data) == 0 {
				fmt.Println("No library items found")
				return nil
			}

			table := NewTable("ID", "KIND", "TITLE", "LANGUAGE", "PREMIUM")
			for _, item := range result.Data {
				premium := ""
				if item.Premium {
					premium = "yes"
				}
				table.AddRow(
					strconv.FormatInt(item.ID, 10),
					item.Kind,
					truncate(item.Title, 50),
					item.Language,
					premium,
				)
			}
			table.Render()
			fmt.Printf("\nPage %d of %d (%d total)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind: article, video, testimonial")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")

	return cmd
}

func newLibraryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a library item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item ID: %s", args[0])
			}

			ctx := context.Background()
			item, err := apiClient.Library().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get library item: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(item)
			}

			fmt.Printf("Title:    %s\n", item.Title)
			fmt.Printf("Kind:     %s\n", item.Kind)
			if item.Author != nil {
				fmt.Printf("Author:   %s\n", *item.Author)
			}
			if item.Category != nil {
				fmt.Printf("Category: %s\n", *item.Category)
			}
			if item.URL != nil {
				fmt.Printf("URL:      %s\n", *item.URL)
			}
			if item.Summary != "" {
				fmt.Printf("\n%s\n", item.Summary)
			}
			if item.Body != "" {
				fmt.Printf("\n%s\n", item.Body)
			}
			return nil
		},
	}
}
