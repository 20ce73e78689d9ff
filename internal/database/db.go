package database

import (
	"fmt"
	"strings"
	"time"

	"fresh/internal/config"
	"fresh/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/lib/pq"                        // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Open connects to the configured database and tunes the connection pool
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.LogMode(cfg.Debug)

	if cfg.Driver == "sqlite3" {
		// an in-memory sqlite database exists per connection
		db.DB().SetMaxOpenConns(1)
	} else {
		db.DB().SetMaxIdleConns(10)
		db.DB().SetMaxOpenConns(100)
		db.DB().SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Migrate creates or updates every table the service uses
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.RecipeIngredient{},
		&models.PantryItem{},
		&models.Nutrient{},
		&models.Media{},
	).Error
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SyncIngredients makes the ingredients and recipe_ingredients tables reflect
// the recipe's current ingredient list. Call it inside the transaction that
// stores the recipe.
func SyncIngredients(tx *gorm.DB, recipe *models.Recipe) error {
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	seen := make(map[uint]bool)
	for _, name := range recipe.IngredientList() {
		var ingredient models.Ingredient
		err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&ingredient).Error
		if gorm.IsRecordNotFoundError(err) {
			ingredient = models.Ingredient{Name: name}
			err = tx.Create(&ingredient).Error
		}
		if err != nil {
			return fmt.Errorf("failed to store ingredient %q: %w", name, err)
		}
		if seen[ingredient.ID] {
			continue
		}
		seen[ingredient.ID] = true

		link := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link ingredient %q: %w", name, err)
		}
	}
	return nil
}
