package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subtally/subtally/internal/calendar"
	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/config"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Put renewal dates on your calendar",
	}

	cmd.AddCommand(calendarAuthCmd())
	cmd.AddCommand(calendarSyncCmd())
	cmd.AddCommand(calendarExportCmd())

	return cmd
}

func calendarAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokenFile, err := config.TokenFile()
			if err != nil {
				return fmt.Errorf("failed to locate token file: %w", err)
			}

			oauthCfg := calendar.OAuth2Config{
				ClientID:     viper.GetString("calendar.client_id"),
				ClientSecret: viper.GetString("calendar.client_secret"),
				TokenFile:    tokenFile,
				CallbackPort: viper.GetInt("calendar.callback_port"),
			}
			if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
				return fmt.Errorf("set calendar.client_id and calendar.client_secret in your config first")
			}

			if _, err := calendar.GetOrCreateToken(cmd.Context(), oauthCfg); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Google Calendar connected"))
			return nil
		},
	}
}

func calendarSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync renewal events to Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			subs, err := client.ListSubscriptions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			cfg := calendar.DefaultConfig()
			cfg.ClientID = viper.GetString("calendar.client_id")
			cfg.ClientSecret = viper.GetString("calendar.client_secret")
			cfg.RefreshToken = viper.GetString("calendar.refresh_token")
			cfg.ServiceAccountPath = viper.GetString("calendar.service_account_path")
			cfg.CalendarID = viper.GetString("calendar.id")
			if name := viper.GetString("calendar.name"); name != "" {
				cfg.CalendarName = name
			} else if cfg.CalendarName == "" {
				cfg.CalendarName = "Subscription Renewals"
			}

			if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" {
				// Fall back to a previously cached interactive token.
				tokenFile, tokenErr := config.TokenFile()
				if tokenErr == nil {
					if token, loadErr := calendar.LoadToken(tokenFile); loadErr == nil {
						cfg.RefreshToken = token.RefreshToken
					}
				}
			}
			if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" {
				return fmt.Errorf("not authenticated: run 'subtally calendar auth' first")
			}

			writer, err := calendar.NewWriter(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}

			if err := writer.SyncRenewals(cmd.Context(), subs); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Renewal events synced"))
			return nil
		},
	}
}

func calendarExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export renewal events to an iCalendar file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			subs, err := client.ListSubscriptions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			f, err := os.Create(outPath) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer func() { _ = f.Close() }()

			if err := calendar.WriteICS(f, subs, time.Now()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %s", outPath)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "renewals.ics", "output file")
	return cmd
}
