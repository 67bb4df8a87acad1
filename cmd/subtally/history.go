package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent statement imports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListImports(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Import history"))
			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No imports yet. Run 'subtally import <file>' to get started."))
				return nil
			}

			var b strings.Builder
			b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-28s %-9s %9s %9s %10s",
				"DATE", "FILE", "CURRENCY", "IMPORTED", "SKIPPED", "DUPLICATES")))
			b.WriteString("\n")
			for _, r := range records {
				b.WriteString(fmt.Sprintf("%-12s %-28s %-9s %9d %9d %10d\n",
					r.CreatedAt.Format("2006-01-02"), r.FileName, r.Currency,
					r.ImportedCount, r.SkippedCount, r.DuplicateCount))
			}
			fmt.Println(b.String())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of imports to show")
	return cmd
}
