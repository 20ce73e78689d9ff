package main

import (
	"fmt"
	"time"

	"fresh/internal/database"

	"github.com/spf13/cobra"
)

func migrateCmd(flags *globalFlags) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			db, _, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if seed {
				if err := database.Seed(db, time.Now()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", cfg.Database.Driver)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Insert the sample catalog and shared pantry into empty tables")
	return cmd
}
