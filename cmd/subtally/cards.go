package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/cli"
)

func cardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List stored payment cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			cards, err := client.ListPaymentCards(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list payment cards: %w", err)
			}

			fmt.Println(cli.FormatTitle("Payment cards"))
			fmt.Println(cli.RenderCardTable(cards))
			return nil
		},
	}
}
