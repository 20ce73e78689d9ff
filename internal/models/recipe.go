package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Meal categories used by the weekly planner. Recipes may carry any other
// free-text category as well.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
	CategoryDinner    = "Dinner"
	CategorySnack     = "Snack"
	CategoryDessert   = "Dessert"
)

// Recipe is a catalog entry. Ingredients and Instructions are stored as
// newline-joined text, which is also the wire format of the catalog API.
type Recipe struct {
	ID           uint        `gorm:"primary_key" json:"id"`
	AuthorID     uint        `json:"author,omitempty"`
	Title        string      `gorm:"not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Instructions string      `gorm:"type:text" json:"instructions,omitempty"`
	Category     string      `gorm:"index" json:"category"`
	TotalTime    float64     `json:"total_time"`
	CookTime     float64     `json:"cook_time"`
	PrepTime     float64     `json:"prep_time"`
	Cuisine      string      `json:"cuisine"`
	Image        string      `json:"image"`
	Ingredients  string      `gorm:"type:text" json:"ingredients"`
	Tags         StringSlice `gorm:"type:text" json:"tags"`
	Ratings      float64     `json:"ratings"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// IngredientList splits the stored ingredient text into one entry per line.
// Blank lines are dropped and surrounding whitespace trimmed.
func (r Recipe) IngredientList() []string {
	return splitLines(r.Ingredients)
}

// SetIngredientList stores the ingredients newline-joined.
func (r *Recipe) SetIngredientList(ingredients []string) {
	r.Ingredients = strings.Join(ingredients, "\n")
}

// InstructionList returns the instruction steps, one per line.
func (r Recipe) InstructionList() []string {
	return splitLines(r.Instructions)
}

// SetInstructionList stores the instructions newline-joined.
func (r *Recipe) SetInstructionList(steps []string) {
	r.Instructions = strings.Join(steps, "\n")
}

func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Ingredient is a distinct ingredient name referenced by at least one recipe.
type Ingredient struct {
	ID   uint   `gorm:"primary_key" json:"id"`
	Name string `gorm:"unique_index;not null" json:"name"`
}

// TableName sets the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeIngredient links a recipe to the ingredients it lists.
type RecipeIngredient struct {
	RecipeID     uint `gorm:"primary_key;auto_increment:false"`
	IngredientID uint `gorm:"primary_key;auto_increment:false"`
}

// TableName sets the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// Nutrient holds the nutritional facts of one recipe serving.
type Nutrient struct {
	ID            uint    `gorm:"primary_key" json:"id"`
	RecipeID      uint    `gorm:"index" json:"recipe_id"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

// TableName sets the table name for Nutrient
func (Nutrient) TableName() string {
	return "nutrients"
}
