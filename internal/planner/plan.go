// Package planner assigns recipes to the days of a week and owns the
// per-session weekly meal plan.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fresh/internal/models"
)

// Day is a day of the planning week
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Week lists the days in plan order
var Week = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ErrUnknownDay is returned when a day name is not one of the seven week days
var ErrUnknownDay = errors.New("unknown day")

// ParseDay resolves a day name case-insensitively
func ParseDay(name string) (Day, error) {
	for _, day := range Week {
		if strings.EqualFold(string(day), strings.TrimSpace(name)) {
			return day, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, name)
}

// DayAssignment is the ordered list of meals planned for one day
type DayAssignment struct {
	Day   Day             `json:"day"`
	Meals []models.Recipe `json:"meals"`
}

// WeeklyMealPlan maps each of the seven days to its meals. The day set is
// fixed at construction; only the meal sequences change.
type WeeklyMealPlan struct {
	days map[Day][]models.Recipe
}

// NewWeeklyMealPlan returns a plan with all seven days present and empty
func NewWeeklyMealPlan() *WeeklyMealPlan {
	p := &WeeklyMealPlan{days: make(map[Day][]models.Recipe, len(Week))}
	for _, day := range Week {
		p.days[day] = []models.Recipe{}
	}
	return p
}

// Meals returns a copy of the meals planned for day
func (p *WeeklyMealPlan) Meals(day Day) []models.Recipe {
	meals := p.days[day]
	out := make([]models.Recipe, len(meals))
	copy(out, meals)
	return out
}

// Days returns the day assignments in week order
func (p *WeeklyMealPlan) Days() []DayAssignment {
	out := make([]DayAssignment, 0, len(Week))
	for _, day := range Week {
		out = append(out, DayAssignment{Day: day, Meals: p.Meals(day)})
	}
	return out
}

// Clone returns a deep copy of the plan
func (p *WeeklyMealPlan) Clone() *WeeklyMealPlan {
	c := &WeeklyMealPlan{days: make(map[Day][]models.Recipe, len(Week))}
	for _, day := range Week {
		c.days[day] = p.Meals(day)
	}
	return c
}

// MealCount is the total number of meals across the week
func (p *WeeklyMealPlan) MealCount() int {
	n := 0
	for _, day := range Week {
		n += len(p.days[day])
	}
	return n
}

// MarshalJSON encodes the plan as an ordered list of day assignments
func (p *WeeklyMealPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Days())
}

// UnmarshalJSON decodes a list of day assignments. Days absent from the
// input stay empty; unknown day names are rejected.
func (p *WeeklyMealPlan) UnmarshalJSON(data []byte) error {
	var assignments []DayAssignment
	if err := json.Unmarshal(data, &assignments); err != nil {
		return err
	}
	fresh := NewWeeklyMealPlan()
	for _, a := range assignments {
		day, err := ParseDay(string(a.Day))
		if err != nil {
			return err
		}
		fresh.days[day] = append(fresh.days[day], a.Meals...)
	}
	p.days = fresh.days
	return nil
}
