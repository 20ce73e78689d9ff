package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"fresh/internal/client"
	"fresh/internal/config"
	"fresh/internal/database"
	"fresh/internal/export"
	"fresh/internal/planner"

	"github.com/spf13/cobra"
)

// craftOptions select where the week is crafted
type craftOptions struct {
	remote   string
	email    string
	password string
	userID   uint
	seed     int64
}

func (o *craftOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.remote, "remote", "", "Craft on a running server at this base URL instead of the local database")
	cmd.Flags().StringVar(&o.email, "email", "", "Account email for --remote")
	cmd.Flags().StringVar(&o.password, "password", "", "Account password for --remote")
	cmd.Flags().UintVar(&o.userID, "user", database.SharedPantryUser, "Local pantry owner (0 is the shared pantry)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Random seed for a reproducible local week (0 uses the configured seed)")
}

func craftCmd(flags *globalFlags) *cobra.Command {
	opts := &craftOptions{}

	cmd := &cobra.Command{
		Use:   "craft",
		Short: "Craft a week of meals from the pantry and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := craftWeek(cmd.Context(), flags, opts)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func exportCmd(flags *globalFlags) *cobra.Command {
	opts := &craftOptions{}

	cmd := &cobra.Command{
		Use:   "export <out.xlsx>",
		Short: "Craft a week of meals and save it as a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := craftWeek(cmd.Context(), flags, opts)
			if err != nil {
				return err
			}
			if err := export.SaveWeek(args[0], plan); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d meals to %s\n", plan.MealCount(), args[0])
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func craftWeek(ctx context.Context, flags *globalFlags, opts *craftOptions) (*planner.WeeklyMealPlan, error) {
	cfg, logger, err := flags.setup()
	if err != nil {
		return nil, err
	}

	if opts.remote != "" {
		c := client.New(opts.remote, logger)
		if err := c.CheckHealth(ctx); err != nil {
			return nil, fmt.Errorf("server at %s is not reachable: %w", c.BaseURL, err)
		}
		if opts.email == "" {
			return nil, errors.New("--email and --password are required with --remote")
		}
		if _, err := c.Login(ctx, opts.email, opts.password); err != nil {
			return nil, err
		}
		plan, err := c.Craft(ctx)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Category != "" {
			return nil, fmt.Errorf("not enough %s recipes in your AI Menu to craft a week", apiErr.Category)
		}
		return plan, err
	}

	db, store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	matched, err := store.AIMenu(opts.userID)
	if err != nil {
		return nil, err
	}

	assigner := planner.NewAssigner(localSource(cfg, opts))
	plan, err := assigner.AutoCraft(matched)
	var insufficient *planner.InsufficientRecipesError
	if errors.As(err, &insufficient) {
		return nil, fmt.Errorf("not enough %s recipes in the AI Menu (%d matched) to craft a week", insufficient.Category, len(matched))
	}
	return plan, err
}

func localSource(cfg *config.Config, opts *craftOptions) rand.Source {
	seed := opts.seed
	if seed == 0 {
		seed = cfg.Planner.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.NewSource(seed)
}

func printWeek(w io.Writer, plan *planner.WeeklyMealPlan) {
	for _, day := range plan.Days() {
		fmt.Fprintf(w, "%s\n", day.Day)
		if len(day.Meals) == 0 {
			fmt.Fprintln(w, "  (no meals)")
			continue
		}
		for i, meal := range day.Meals {
			label := "extra"
			if i < len(planner.Slots) {
				label = planner.Slots[i].Name
			}
			fmt.Fprintf(w, "  %-9s %s (%s, %.0f min)\n", label+":", meal.Title, strings.TrimSpace(meal.Category), meal.TotalTime)
		}
	}
}
