package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/importer"
	"github.com/subtally/subtally/internal/tui"
	"github.com/subtally/subtally/internal/tui/themes"
)

func importCmd() *cobra.Command {
	var (
		bankID     string
		currency   string
		cardID     string
		categoryID string
		noAI       bool
		autoUpload bool
	)

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Import subscriptions from a bank statement",
		Long: fmt.Sprintf(`Upload a bank statement, let the backend detect recurring payments, and
review the candidates interactively before anything is saved.

Supported formats: %s`, strings.Join(importer.SupportedExtensions, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			wizard := importer.NewWizard(client)
			if err := wizard.SelectFile(args[0]); err != nil {
				return err
			}
			if currency != "" {
				if err := wizard.SetCurrency(strings.ToUpper(currency)); err != nil {
					return err
				}
			}
			wizard.SetBank(bankID)
			wizard.SetUseAI(!noAI)

			history, err := initHistory(cmd.Context())
			if err != nil {
				// History is a convenience; the import still works without it.
				slog.Warn("import history unavailable", "error", err)
				history = nil
			}
			if history != nil {
				defer func() { _ = history.Close() }()
			}

			cfg := tui.Config{
				Wizard:     wizard,
				Theme:      themes.Default,
				CardID:     cardID,
				CategoryID: categoryID,
				AutoUpload: autoUpload,
			}
			if history != nil {
				cfg.History = history
			}

			return tui.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&bankID, "bank", "", "bank identifier to help the parser")
	cmd.Flags().StringVar(&currency, "currency", "GBP", "statement currency")
	cmd.Flags().StringVar(&cardID, "card", "", "payment card to attach imported subscriptions to")
	cmd.Flags().StringVar(&categoryID, "category", "", "category to assign imported subscriptions to")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "disable AI-assisted detection")
	cmd.Flags().BoolVar(&autoUpload, "auto", false, "upload immediately without the confirmation prompt")

	return cmd
}
