// Package matching selects the recipes a pantry can fully cover and
// partitions recipes by meal category.
package matching

import (
	"strings"

	"fresh/internal/models"
)

// MatchableRecipes returns the recipes whose every ingredient is covered by at
// least one pantry item. A pantry item covers an ingredient when its name,
// case-insensitively, appears within the ingredient text, so "Egg" covers
// "Eggplant". Recipes without ingredients always match. Catalog order is kept.
func MatchableRecipes(pantry []models.PantryItem, catalog []models.Recipe) []models.Recipe {
	names := pantryNames(pantry)
	matched := make([]models.Recipe, 0, len(catalog))
	for _, recipe := range catalog {
		if coversAll(names, recipe.IngredientList()) {
			matched = append(matched, recipe)
		}
	}
	return matched
}

// Covers reports whether the pantry covers every ingredient of the recipe.
func Covers(pantry []models.PantryItem, recipe models.Recipe) bool {
	return coversAll(pantryNames(pantry), recipe.IngredientList())
}

// MissingIngredients lists, in recipe order, the ingredients no pantry item covers.
// Duplicates are reported once per occurrence.
func MissingIngredients(pantry []models.PantryItem, recipe models.Recipe) []string {
	names := pantryNames(pantry)
	missing := []string{}
	for _, ingredient := range recipe.IngredientList() {
		if !covered(names, ingredient) {
			missing = append(missing, ingredient)
		}
	}
	return missing
}

func coversAll(names []string, ingredients []string) bool {
	for _, ingredient := range ingredients {
		if !covered(names, ingredient) {
			return false
		}
	}
	return true
}

func covered(names []string, ingredient string) bool {
	ingredient = strings.ToLower(ingredient)
	for _, name := range names {
		if strings.Contains(ingredient, name) {
			return true
		}
	}
	return false
}

// pantryNames lower-cases the pantry names once per call. Blank names are
// skipped; an empty string would otherwise be contained in every ingredient.
func pantryNames(pantry []models.PantryItem) []string {
	names := make([]string, 0, len(pantry))
	for _, item := range pantry {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
