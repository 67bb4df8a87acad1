package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/cli"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List spending categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			categories, err := client.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			fmt.Println(cli.FormatTitle("Categories"))
			fmt.Println(cli.RenderCategoryTable(categories))
			return nil
		},
	}
}
