package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"fresh/internal/importer"
	"fresh/internal/models"

	"github.com/spf13/cobra"
)

func importCmd(flags *globalFlags) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "import <url|file>...",
		Short: "Import recipes from web pages into the catalog",
		Long: `Import reads schema.org Recipe data (JSON-LD or microdata) from each page and
saves it to the catalog. Arguments starting with http:// or https:// are
fetched; anything else is read as a local HTML file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup()
			if err != nil {
				return err
			}
			db, store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			imp := importer.New(&http.Client{Timeout: 30 * time.Second})
			failed := 0
			for _, source := range args {
				recipe, err := load(cmd, imp, source)
				if err != nil {
					logger.Error("Failed to import recipe", slog.String("source", source), slog.String("error", err.Error()))
					failed++
					continue
				}
				if category != "" {
					recipe.Category = category
				}
				if err := store.Recipes.Save(recipe); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s) as recipe %d\n", recipe.Title, recipe.Category, recipe.ID)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d imports failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Override the imported category (e.g. \"Lunch, Dinner\")")
	return cmd
}

func load(cmd *cobra.Command, imp *importer.Importer, source string) (*models.Recipe, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return imp.FetchURL(cmd.Context(), source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer f.Close()
	return importer.Parse(f)
}
