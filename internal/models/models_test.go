package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_IngredientList(t *testing.T) {
	r := Recipe{Ingredients: "2 Eggs\n\n  1 slice Bread  \n\t\nSalt"}
	assert.Equal(t, []string{"2 Eggs", "1 slice Bread", "Salt"}, r.IngredientList())

	empty := Recipe{}
	assert.NotNil(t, empty.IngredientList())
	assert.Empty(t, empty.IngredientList())

	r.SetIngredientList([]string{"Rice", "Milk"})
	assert.Equal(t, "Rice\nMilk", r.Ingredients)
	assert.Equal(t, []string{"Rice", "Milk"}, r.IngredientList())
}

func TestRecipe_InstructionList(t *testing.T) {
	var r Recipe
	r.SetInstructionList([]string{"Boil water.", "Add pasta."})
	assert.Equal(t, []string{"Boil water.", "Add pasta."}, r.InstructionList())
}

func TestStringSlice_ValueAndScan(t *testing.T) {
	v, err := StringSlice{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringSlice{"quick", "vegan"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["quick","vegan"]`, v)

	var s StringSlice
	require.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringSlice{"a", "b"}, s)

	require.NoError(t, s.Scan(`["c"]`))
	assert.Equal(t, StringSlice{"c"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}

func TestPantryItem_Expiry(t *testing.T) {
	now := time.Date(2024, time.March, 4, 18, 30, 0, 0, time.UTC)
	at := func(days int) PantryItem {
		return PantryItem{Name: "Milk", ExpirationDate: time.Date(2024, time.March, 4+days, 8, 0, 0, 0, time.UTC)}
	}

	tests := []struct {
		name   string
		days   int
		status ExpirationStatus
		text   string
	}{
		{"expired", -2, StatusExpired, "Expired"},
		{"today", 0, StatusToday, "Expiring Today"},
		{"tomorrow", 1, StatusTomorrow, "Expiring Tomorrow"},
		{"soon", 3, StatusSoon, "Expiring in 3 Days"},
		{"this week", 6, StatusThisWeek, "6d"},
		{"fresh", 20, StatusFresh, "20d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := at(tt.days)
			assert.Equal(t, tt.days, item.DaysUntilExpiry(now))
			assert.Equal(t, tt.status, item.ExpirationStatus(now))
			assert.Equal(t, tt.text, item.ExpirationText(now))
		})
	}
}

func TestPantryItem_ExpiringSoon(t *testing.T) {
	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	assert.True(t, PantryItem{ExpirationDate: now.AddDate(0, 0, 6)}.ExpiringSoon(now))
	assert.True(t, PantryItem{ExpirationDate: now.AddDate(0, 0, -1)}.ExpiringSoon(now))
	assert.False(t, PantryItem{ExpirationDate: now.AddDate(0, 0, 7)}.ExpiringSoon(now))
}

func TestPantryItem_DaysAcrossZones(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, time.March, 4, 21, 0, 0, 0, loc)
	// 01:00 UTC on the 5th is still the 4th at UTC-5
	item := PantryItem{ExpirationDate: time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC)}
	assert.Equal(t, 0, item.DaysUntilExpiry(now))
}
