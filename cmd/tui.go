package main

import (
	"fmt"

	"fresh/internal/client"
	"fresh/internal/tui"

	"github.com/spf13/cobra"
)

func tuiCmd(flags *globalFlags) *cobra.Command {
	var remote, email, password string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the AI Menu and plan the week from the terminal",
		Long: `tui connects to a running fresh server. The base URL defaults to
FRESH_API_URL, then http://localhost:8080.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := flags.setup()
			if err != nil {
				return err
			}

			c := client.New(remote, logger)
			if err := c.CheckHealth(cmd.Context()); err != nil {
				return fmt.Errorf("server at %s is not reachable: %w", c.BaseURL, err)
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if _, err := c.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Server base URL")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}
