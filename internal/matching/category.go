package matching

import (
	"strings"

	"fresh/internal/models"
)

// KnownCategories are the meal categories the index partitions on, in display order.
var KnownCategories = []string{
	models.CategoryBreakfast,
	models.CategoryLunch,
	models.CategoryDinner,
	models.CategorySnack,
	models.CategoryDessert,
}

// OtherCategory collects recipes whose category matches none of KnownCategories.
const OtherCategory = "Other"

// ByCategory keeps the recipes whose category contains the given text,
// ignoring case, in input order. This is the same filter the catalog
// endpoint applies with an escaped LIKE '%category%'.
func ByCategory(recipes []models.Recipe, category string) []models.Recipe {
	needle := strings.ToLower(category)
	out := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if strings.Contains(strings.ToLower(recipe.Category), needle) {
			out = append(out, recipe)
		}
	}
	return out
}

// CategoryIndex partitions a recipe set by meal category
type CategoryIndex struct {
	pools map[string][]models.Recipe
	total int
}

// Index builds a CategoryIndex over recipes. A recipe lands in every known
// category its category text contains, or in OtherCategory when none apply.
func Index(recipes []models.Recipe) *CategoryIndex {
	idx := &CategoryIndex{
		pools: make(map[string][]models.Recipe, len(KnownCategories)+1),
		total: len(recipes),
	}
	for _, recipe := range recipes {
		placed := false
		lower := strings.ToLower(recipe.Category)
		for _, category := range KnownCategories {
			if strings.Contains(lower, strings.ToLower(category)) {
				idx.pools[category] = append(idx.pools[category], recipe)
				placed = true
			}
		}
		if !placed {
			idx.pools[OtherCategory] = append(idx.pools[OtherCategory], recipe)
		}
	}
	return idx
}

// Pool returns the recipes indexed under category. The result is empty, never nil.
func (idx *CategoryIndex) Pool(category string) []models.Recipe {
	pool := idx.pools[category]
	if pool == nil {
		return []models.Recipe{}
	}
	return pool
}

// Counts returns the pool size per category, including OtherCategory when non-empty.
func (idx *CategoryIndex) Counts() map[string]int {
	counts := make(map[string]int, len(idx.pools))
	for category, pool := range idx.pools {
		counts[category] = len(pool)
	}
	return counts
}

// Len is the number of recipes the index was built from
func (idx *CategoryIndex) Len() int {
	return idx.total
}
