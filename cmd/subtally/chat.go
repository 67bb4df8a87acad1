package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/chat"
	"github.com/subtally/subtally/internal/cli"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the assistant about your subscriptions",
		Long: `Start a conversation with the spending assistant. With a message argument
it asks once and prints the answer; without one it opens an interactive
session. Type "exit" or press Ctrl+D to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			session := chat.NewSession(client)

			if len(args) > 0 {
				reply, err := session.Send(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Println(chat.RenderMarkdown(reply.Content))
				return nil
			}

			fmt.Println(cli.FormatTitle("Assistant"))
			fmt.Println(cli.SubtleStyle.Render(`Ask about your spending, e.g. "what's my most expensive subscription?"`))

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(cli.BoldStyle.Render("you> "))
				if !scanner.Scan() {
					fmt.Println()
					break
				}

				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}
				if message == "exit" || message == "quit" {
					break
				}

				reply, err := session.Send(cmd.Context(), message)
				if err != nil {
					fmt.Println(cli.FormatError(err.Error()))
					continue
				}
				fmt.Println(chat.RenderMarkdown(reply.Content))
			}

			return scanner.Err()
		},
	}
}
