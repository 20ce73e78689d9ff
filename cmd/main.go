// Package main provides the fresh binary: the meal planning API server and
// the maintenance commands that share its configuration.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"fresh/internal/config"
	"fresh/internal/database"
	"fresh/internal/media"
	"fresh/internal/repository"

	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "fresh"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Pantry-driven recipe matching and weekly meal planning",
		Long: `fresh matches recipes against what is in the pantry and crafts a week of
breakfasts, lunches and dinners from the matches.

Run "fresh serve" for the HTTP API, or use the other commands to manage the
database and plan from the terminal.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultConfigFile, "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(flags),
		migrateCmd(flags),
		importCmd(flags),
		craftCmd(flags),
		exportCmd(flags),
		tuiCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// setup loads the configuration and builds the logger
func (f *globalFlags) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openStore connects to the database, migrates it and wraps it in a
// repository backed by the configured media host
func openStore(cfg *config.Config, logger *slog.Logger) (*gorm.DB, *repository.Store, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	host, err := media.New(cfg.Media)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if !cfg.Media.Enabled() {
		logger.Info("Media host not configured, uploads disabled")
	}
	return db, repository.New(db, host), nil
}

// randSource returns the per-user random source for a configured seed, nil
// when the seed is 0
func randSource(seed int64) func(userID uint) rand.Source {
	if seed == 0 {
		return nil
	}
	return func(userID uint) rand.Source {
		return rand.NewSource(seed + int64(userID))
	}
}
