package repository

import (
	"fmt"
	"strings"

	"fresh/internal/database"
	"fresh/internal/models"

	"github.com/jinzhu/gorm"
)

// Recipes is the recipe catalog
type Recipes struct {
	db *gorm.DB
}

// List returns every recipe ordered by id
func (r *Recipes) List() ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := r.db.Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// likeEscaper makes LIKE wildcards in user text match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ByCategory returns recipes whose category contains category as plain
// text, ignoring case
func (r *Recipes) ByCategory(category string) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(category)) + "%"
	if err := r.db.Where(`LOWER(category) LIKE ? ESCAPE '\'`, pattern).Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes by category: %w", err)
	}
	return recipes, nil
}

// Get returns one recipe
func (r *Recipes) Get(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		return nil, notFound(err, "recipe", id)
	}
	return &recipe, nil
}

// GetMany returns the recipes for ids in the given order, repeating a recipe
// when its id repeats. Any unknown id fails the whole lookup.
func (r *Recipes) GetMany(ids []uint) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	var found []models.Recipe
	if err := r.db.Where("id IN (?)", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	byID := make(map[uint]models.Recipe, len(found))
	for _, recipe := range found {
		byID[recipe.ID] = recipe
	}

	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		out = append(out, recipe)
	}
	return out, nil
}

// Save inserts or updates a recipe and refreshes its ingredient links
func (r *Recipes) Save(recipe *models.Recipe) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	if err := saveRecipe(tx, recipe); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

func saveRecipe(tx *gorm.DB, recipe *models.Recipe) error {
	if err := tx.Save(recipe).Error; err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return database.SyncIngredients(tx, recipe)
}

// IngredientNames returns every distinct ingredient name, sorted
func (r *Recipes) IngredientNames() ([]string, error) {
	names := []string{}
	if err := r.db.Model(&models.Ingredient{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return names, nil
}

// Nutrients returns the nutrient facts of a recipe
func (r *Recipes) Nutrients(recipeID uint) (*models.Nutrient, error) {
	var nutrient models.Nutrient
	if err := r.db.Where("recipe_id = ?", recipeID).First(&nutrient).Error; err != nil {
		return nil, notFound(err, "nutrients for recipe", recipeID)
	}
	return &nutrient, nil
}
