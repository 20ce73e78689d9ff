package database

import (
	"fmt"
	"time"

	"fresh/internal/models"

	"github.com/jinzhu/gorm"
)

// SharedPantryUser owns the pantry used for anonymous AI menu requests
const SharedPantryUser uint = 0

type sampleRecipe struct {
	recipe   models.Recipe
	steps    []string
	items    []string
	nutrient models.Nutrient
}

// Seed ensures a small catalog and the shared pantry exist. Tables that
// already hold rows are left alone.
func Seed(db *gorm.DB, now time.Time) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", tx.Error)
	}

	if err := seedDefaultData(tx, now); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}
	return nil
}

func seedDefaultData(tx *gorm.DB, now time.Time) error {
	var recipeCount int64
	if err := tx.Model(&models.Recipe{}).Count(&recipeCount).Error; err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if recipeCount == 0 {
		if err := createSampleRecipes(tx); err != nil {
			return err
		}
	}

	var pantryCount int64
	if err := tx.Model(&models.PantryItem{}).Where("user_id = ?", SharedPantryUser).Count(&pantryCount).Error; err != nil {
		return fmt.Errorf("failed to count pantry items: %w", err)
	}
	if pantryCount == 0 {
		if err := createSharedPantry(tx, now); err != nil {
			return err
		}
	}
	return nil
}

func createSampleRecipes(tx *gorm.DB) error {
	for _, sample := range sampleRecipes() {
		recipe := sample.recipe
		recipe.SetIngredientList(sample.items)
		recipe.SetInstructionList(sample.steps)
		recipe.TotalTime = recipe.PrepTime + recipe.CookTime

		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create sample recipe %q: %w", recipe.Title, err)
		}
		if err := SyncIngredients(tx, &recipe); err != nil {
			return err
		}

		nutrient := sample.nutrient
		nutrient.RecipeID = recipe.ID
		if err := tx.Create(&nutrient).Error; err != nil {
			return fmt.Errorf("failed to create nutrients for %q: %w", recipe.Title, err)
		}
	}
	return nil
}

func createSharedPantry(tx *gorm.DB, now time.Time) error {
	shelfLife := map[string]int{
		"Eggs":      10,
		"Milk":      1,
		"Bread":     3,
		"Butter":    30,
		"Oats":      180,
		"Banana":    0,
		"Rice":      365,
		"Chicken":   2,
		"Tomato":    5,
		"Onion":     20,
		"Garlic":    40,
		"Olive Oil": 365,
		"Salt":      1000,
		"Pepper":    1000,
		"Pasta":     300,
		"Cheese":    14,
		"Lettuce":   4,
	}
	for name, days := range shelfLife {
		item := models.PantryItem{
			UserID:         SharedPantryUser,
			Name:           name,
			ExpirationDate: now.AddDate(0, 0, days),
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create pantry item %q: %w", name, err)
		}
	}
	return nil
}

func sampleRecipes() []sampleRecipe {
	return []sampleRecipe{
		{
			recipe: models.Recipe{
				Title: "Scrambled Eggs on Toast", Description: "Soft eggs over buttered toast",
				Category: models.CategoryBreakfast, PrepTime: 5, CookTime: 5, Cuisine: "British",
				Tags: models.StringSlice{"quick", "vegetarian"}, Ratings: 4.5,
			},
			items:    []string{"2 Eggs", "1 slice Bread", "1 tbsp Butter", "Salt", "Pepper"},
			steps:    []string{"Whisk the eggs with salt and pepper.", "Toast the bread.", "Cook the eggs in butter over low heat.", "Serve on the toast."},
			nutrient: models.Nutrient{Calories: 320, Protein: 16, Carbohydrates: 18, Fat: 20, Fiber: 1, Sugar: 2, Sodium: 480},
		},
		{
			recipe: models.Recipe{
				Title: "Banana Oat Porridge", Description: "Creamy oats topped with banana",
				Category: models.CategoryBreakfast, PrepTime: 2, CookTime: 8, Cuisine: "American",
				Tags: models.StringSlice{"vegetarian"}, Ratings: 4.2,
			},
			items:    []string{"1 cup Oats", "1 cup Milk", "1 Banana"},
			steps:    []string{"Simmer the oats in milk until thick.", "Slice the banana on top."},
			nutrient: models.Nutrient{Calories: 350, Protein: 12, Carbohydrates: 60, Fat: 7, Fiber: 8, Sugar: 18, Sodium: 110},
		},
		{
			recipe: models.Recipe{
				Title: "Cheese Omelette", Description: "Folded omelette with melted cheese",
				Category: models.CategoryBreakfast, PrepTime: 5, CookTime: 5, Cuisine: "French",
				Tags: models.StringSlice{"vegetarian", "gluten-free"}, Ratings: 4.4,
			},
			items:    []string{"3 Eggs", "30g Cheese", "1 tsp Butter", "Salt"},
			steps:    []string{"Beat the eggs with salt.", "Cook in butter until just set.", "Add cheese and fold."},
			nutrient: models.Nutrient{Calories: 390, Protein: 26, Carbohydrates: 2, Fat: 30, Sugar: 1, Sodium: 620},
		},
		{
			recipe: models.Recipe{
				Title: "Chicken Caesar Salad", Description: "Crisp lettuce with grilled chicken",
				Category: models.CategoryLunch, PrepTime: 15, CookTime: 10, Cuisine: "American",
				Tags: models.StringSlice{"salad"}, Ratings: 4.3,
			},
			items:    []string{"1 Chicken breast", "1 head Lettuce", "20g Cheese", "1 slice Bread", "2 tbsp Olive Oil"},
			steps:    []string{"Grill the chicken and slice it.", "Toast cubes of bread in olive oil.", "Toss lettuce, croutons, chicken and cheese."},
			nutrient: models.Nutrient{Calories: 480, Protein: 38, Carbohydrates: 20, Fat: 27, Fiber: 3, Sugar: 3, Sodium: 760},
		},
		{
			recipe: models.Recipe{
				Title: "Tomato Bruschetta", Description: "Toasted bread with garlicky tomatoes",
				Category: models.CategoryLunch, PrepTime: 10, CookTime: 5, Cuisine: "Italian",
				Tags: models.StringSlice{"vegan"}, Ratings: 4.1,
			},
			items:    []string{"2 Tomato", "2 slices Bread", "1 clove Garlic", "1 tbsp Olive Oil", "Salt"},
			steps:    []string{"Dice the tomatoes and season.", "Toast the bread and rub with garlic.", "Top with tomatoes and olive oil."},
			nutrient: models.Nutrient{Calories: 260, Protein: 7, Carbohydrates: 36, Fat: 10, Fiber: 4, Sugar: 6, Sodium: 420},
		},
		{
			recipe: models.Recipe{
				Title: "Egg Fried Rice", Description: "Day-old rice fried with egg and onion",
				Category: models.CategoryLunch + ", " + models.CategoryDinner, PrepTime: 5, CookTime: 10, Cuisine: "Chinese",
				Tags: models.StringSlice{"quick"}, Ratings: 4.6,
			},
			items:    []string{"2 cups cooked Rice", "2 Eggs", "1 Onion", "1 tbsp Olive Oil", "Salt"},
			steps:    []string{"Fry the onion in oil.", "Add rice and stir-fry.", "Push aside, scramble the eggs, then combine."},
			nutrient: models.Nutrient{Calories: 520, Protein: 18, Carbohydrates: 70, Fat: 18, Fiber: 2, Sugar: 3, Sodium: 690},
		},
		{
			recipe: models.Recipe{
				Title: "Roast Chicken", Description: "A classic roast chicken dish",
				Category: models.CategoryDinner, PrepTime: 20, CookTime: 60, Cuisine: "French",
				Tags: models.StringSlice{"chicken", "roast"}, Ratings: 4.7,
			},
			items:    []string{"1 whole Chicken", "2 tsp Salt", "1 tsp Pepper", "2 tbsp Olive Oil", "3 cloves Garlic"},
			steps:    []string{"Preheat oven to 220C.", "Season chicken with salt, pepper and olive oil. Stuff with garlic.", "Roast for 1 hour.", "Rest for 10 minutes before carving."},
			nutrient: models.Nutrient{Calories: 610, Protein: 55, Fat: 42, Sodium: 900},
		},
		{
			recipe: models.Recipe{
				Title: "Simple Pasta", Description: "A quick and easy pasta dish",
				Category: models.CategoryDinner, PrepTime: 15, CookTime: 20, Cuisine: "Italian",
				Tags: models.StringSlice{"pasta", "quick", "easy"}, Ratings: 4.0,
			},
			items:    []string{"500g Pasta", "3 Tomato", "2 tbsp Olive Oil", "1 tsp Salt", "2 cloves Garlic"},
			steps:    []string{"Boil the pasta until al dente.", "Cook tomatoes and garlic in olive oil.", "Toss the pasta in the sauce."},
			nutrient: models.Nutrient{Calories: 560, Protein: 17, Carbohydrates: 95, Fat: 12, Fiber: 6, Sugar: 8, Sodium: 520},
		},
		{
			recipe: models.Recipe{
				Title: "Beef Stew", Description: "Slow cooked beef and vegetables",
				Category: models.CategoryDinner, PrepTime: 25, CookTime: 150, Cuisine: "Irish",
				Tags: models.StringSlice{"slow"}, Ratings: 4.8,
			},
			items:    []string{"800g Beef", "2 Carrots", "1 Onion", "3 Potatoes", "Salt"},
			steps:    []string{"Brown the beef.", "Add vegetables and water.", "Simmer for two and a half hours."},
			nutrient: models.Nutrient{Calories: 640, Protein: 48, Carbohydrates: 35, Fat: 32, Fiber: 6, Sugar: 7, Sodium: 840},
		},
		{
			recipe: models.Recipe{
				Title: "Garlic Bread", Description: "Buttery garlic bread",
				Category: models.CategorySnack, PrepTime: 5, CookTime: 10, Cuisine: "Italian",
				Tags: models.StringSlice{"vegetarian"}, Ratings: 4.2,
			},
			items:    []string{"4 slices Bread", "2 tbsp Butter", "2 cloves Garlic"},
			steps:    []string{"Mash garlic into the butter.", "Spread on bread and bake until golden."},
			nutrient: models.Nutrient{Calories: 300, Protein: 6, Carbohydrates: 32, Fat: 16, Fiber: 2, Sugar: 2, Sodium: 380},
		},
		{
			recipe: models.Recipe{
				Title: "Rice Pudding", Description: "Creamy baked rice pudding",
				Category: models.CategoryDessert, PrepTime: 5, CookTime: 60, Cuisine: "British",
				Tags: models.StringSlice{"sweet"}, Ratings: 3.9,
			},
			items:    []string{"100g Rice", "1 litre Milk", "50g Sugar"},
			steps:    []string{"Combine everything in a dish.", "Bake slowly for an hour."},
			nutrient: models.Nutrient{Calories: 330, Protein: 9, Carbohydrates: 58, Fat: 7, Sugar: 30, Sodium: 100},
		},
	}
}
