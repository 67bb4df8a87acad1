package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/model"
)

// subscriptionFilter narrows an already-fetched subscription list; all
// filtering is client-side.
type subscriptionFilter struct {
	category   string
	cardID     string
	activeOnly bool
}

func (f subscriptionFilter) apply(subs []model.Subscription) []model.Subscription {
	out := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if f.activeOnly && !s.IsActive {
			continue
		}
		if f.cardID != "" && s.CardID != f.cardID {
			continue
		}
		if f.category != "" &&
			!strings.EqualFold(s.CategoryName, f.category) && s.CategoryID != f.category {
			continue
		}
		out = append(out, s)
	}
	return out
}

func subscriptionsCmd() *cobra.Command {
	var filter subscriptionFilter

	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "List tracked subscriptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			subs, err := client.ListSubscriptions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			fmt.Println(cli.FormatTitle("Subscriptions"))
			fmt.Println(cli.RenderSubscriptionTable(filter.apply(subs)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&filter.activeOnly, "active-only", false, "only show active subscriptions")
	cmd.Flags().StringVar(&filter.category, "category", "", "filter by category name or id")
	cmd.Flags().StringVar(&filter.cardID, "card", "", "filter by payment card id")
	return cmd
}
