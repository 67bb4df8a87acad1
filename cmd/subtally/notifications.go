package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/model"
)

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Manage renewal reminder settings",
	}

	cmd.AddCommand(notificationsShowCmd())
	cmd.AddCommand(notificationsSetCmd())

	return cmd
}

func notificationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current reminder settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			settings, err := client.GetNotificationSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get notification settings: %w", err)
			}

			fmt.Println(cli.FormatTitle("Reminders"))
			fmt.Println(renderSettings(*settings))
			return nil
		},
	}
}

func notificationsSetCmd() *cobra.Command {
	var (
		email      string
		daysBefore int
		disable    bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update reminder settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			current, err := client.GetNotificationSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get notification settings: %w", err)
			}

			settings := *current
			if cmd.Flags().Changed("email") {
				settings.Email = email
				settings.EmailEnabled = email != ""
			}
			if cmd.Flags().Changed("days-before") {
				if daysBefore < 0 {
					return fmt.Errorf("days-before cannot be negative")
				}
				settings.DaysBefore = daysBefore
			}
			if cmd.Flags().Changed("disable") {
				settings.RenewalReminder = !disable
			}

			updated, err := client.UpdateNotificationSettings(cmd.Context(), settings)
			if err != nil {
				return fmt.Errorf("failed to update notification settings: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Reminder settings updated"))
			fmt.Println(renderSettings(*updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "address to send reminders to")
	cmd.Flags().IntVar(&daysBefore, "days-before", 3, "days before renewal to remind")
	cmd.Flags().BoolVar(&disable, "disable", false, "turn renewal reminders off")

	return cmd
}

func renderSettings(s model.NotificationSettings) string {
	state := cli.FormatSuccess("enabled")
	if !s.RenewalReminder {
		state = cli.FormatWarning("disabled")
	}

	email := s.Email
	if email == "" || !s.EmailEnabled {
		email = "not configured"
	}

	return fmt.Sprintf("Renewal reminders: %s\nEmail: %s\nDays before renewal: %d",
		state, email, s.DaysBefore)
}
