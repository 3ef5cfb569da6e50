package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/folio/internal/contact"
)

func (c *cli) newContactCmd() *cobra.Command {
	var s contact.Submission

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form endpoint",
		Long: `Contact posts a name, email and message to the configured form endpoint.
Pass --message - to read the message from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.Message == "-" {
				body, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
				s.Message = strings.TrimSpace(string(body))
			}

			client := contact.NewClient(contact.Params{
				Endpoint: c.cfg.Contact.Endpoint,
				Timeout:  c.cfg.Contact.Timeout,
				Logger:   c.logger.Named("contact"),
			})

			result, err := client.Submit(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent (request %s)\n", result.RequestID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&s.Name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&s.Email, "email", "e", "", "your email address")
	cmd.Flags().StringVarP(&s.Message, "message", "m", "", "message text, or - for stdin")
	return cmd
}
