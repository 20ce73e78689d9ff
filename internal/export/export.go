// Package export writes a weekly meal plan as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"fresh/internal/planner"

	"github.com/xuri/excelize/v2"
)

const (
	planSheet     = "Meal Plan"
	shoppingSheet = "Ingredients"
)

// WriteWeek writes plan as an XLSX workbook to w. The first sheet lists every
// meal by day; the second counts how often each ingredient line is needed.
func WriteWeek(w io.Writer, plan *planner.WeeklyMealPlan) error {
	f, err := build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWeek writes plan as an XLSX workbook at path
func SaveWeek(path string, plan *planner.WeeklyMealPlan) error {
	f, err := build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func build(plan *planner.WeeklyMealPlan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePlan(f, plan); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write meal plan sheet: %w", err)
	}
	if _, err := f.NewSheet(shoppingSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeIngredients(f, plan); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write ingredients sheet: %w", err)
	}
	return f, nil
}

func writePlan(f *excelize.File, plan *planner.WeeklyMealPlan) error {
	sw, err := f.NewStreamWriter(planSheet)
	if err != nil {
		return err
	}
	header := []interface{}{"Day", "Meal", "Recipe", "Category", "Total Time (min)", "Ingredients"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	row := 2
	for _, assignment := range plan.Days() {
		if len(assignment.Meals) == 0 {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := sw.SetRow(cell, []interface{}{string(assignment.Day)}); err != nil {
				return err
			}
			row++
			continue
		}
		for i, meal := range assignment.Meals {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []interface{}{
				string(assignment.Day),
				i + 1,
				meal.Title,
				meal.Category,
				meal.TotalTime,
				strings.Join(meal.IngredientList(), ", "),
			}
			if err := sw.SetRow(cell, values); err != nil {
				return err
			}
			row++
		}
	}
	return sw.Flush()
}

func writeIngredients(f *excelize.File, plan *planner.WeeklyMealPlan) error {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, assignment := range plan.Days() {
		for _, meal := range assignment.Meals {
			for _, ingredient := range meal.IngredientList() {
				key := strings.ToLower(ingredient)
				if _, ok := display[key]; !ok {
					display[key] = ingredient
				}
				counts[key]++
			}
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sw, err := f.NewStreamWriter(shoppingSheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{"Ingredient", "Meals"}); err != nil {
		return err
	}
	for i, k := range keys {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{display[k], counts[k]}); err != nil {
			return err
		}
	}
	return sw.Flush()
}
