package planner

import (
	"fmt"
	"math/rand"

	"fresh/internal/matching"
	"fresh/internal/models"
)

// Slot is a meal position within a day
type Slot struct {
	Name     string
	Category string
}

// Slots are the three meals crafted for every day, in order
var Slots = [3]Slot{
	{Name: "breakfast", Category: models.CategoryBreakfast},
	{Name: "lunch", Category: models.CategoryLunch},
	{Name: "dinner", Category: models.CategoryDinner},
}

// InsufficientRecipesError is returned by AutoCraft when a slot's category
// has no recipe to choose from.
type InsufficientRecipesError struct {
	Category string
}

func (e *InsufficientRecipesError) Error() string {
	return fmt.Sprintf("not enough recipes to craft a plan: no %s recipes available", e.Category)
}

// Assigner crafts and edits weekly plans. It holds no plan state; the random
// source is injected so crafting can be made deterministic.
type Assigner struct {
	rand *rand.Rand
}

// NewAssigner creates an Assigner drawing from src
func NewAssigner(src rand.Source) *Assigner {
	return &Assigner{rand: rand.New(src)}
}

// AutoCraft builds a new plan from the matched recipes. Every day, Monday
// through Sunday, gets one breakfast, one lunch and one dinner chosen
// uniformly at random from the matching category. Draws are independent, so a
// recipe may repeat. If any category is empty no plan is returned.
func (a *Assigner) AutoCraft(matched []models.Recipe) (*WeeklyMealPlan, error) {
	pools := make([][]models.Recipe, len(Slots))
	for i, slot := range Slots {
		pools[i] = matching.ByCategory(matched, slot.Category)
		if len(pools[i]) == 0 {
			return nil, &InsufficientRecipesError{Category: slot.Category}
		}
	}

	plan := NewWeeklyMealPlan()
	for _, day := range Week {
		meals := make([]models.Recipe, 0, len(Slots))
		for _, pool := range pools {
			meals = append(meals, pool[a.rand.Intn(len(pool))])
		}
		plan.days[day] = meals
	}
	return plan, nil
}

// AddMeals appends recipes to the end of day's meals
func (a *Assigner) AddMeals(plan *WeeklyMealPlan, day Day, recipes []models.Recipe) {
	meals, ok := plan.days[day]
	if !ok {
		return
	}
	plan.days[day] = append(meals, recipes...)
}

// RemoveMeal drops the first meal on day with the recipe's ID. It does
// nothing when the day has no such meal.
func (a *Assigner) RemoveMeal(plan *WeeklyMealPlan, day Day, recipe models.Recipe) {
	meals := plan.days[day]
	for i, meal := range meals {
		if meal.ID == recipe.ID {
			out := make([]models.Recipe, 0, len(meals)-1)
			out = append(out, meals[:i]...)
			plan.days[day] = append(out, meals[i+1:]...)
			return
		}
	}
}

// ClearAll empties every day of the plan
func (a *Assigner) ClearAll(plan *WeeklyMealPlan) {
	for _, day := range Week {
		plan.days[day] = []models.Recipe{}
	}
}
