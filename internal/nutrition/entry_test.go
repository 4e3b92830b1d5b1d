package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestLiveMeal_Totals(t *testing.T) {
	foodA := Nutrients{Calories: 200, Protein: 10}
	foodB := Nutrients{Calories: 100, Protein: 5}
	meal := LiveMeal{Lines: []MealLine{
		{FoodID: "a", Food: &foodA, Quantity: 2},
		{FoodID: "b", Food: &foodB, Quantity: 1},
	}}

	got := meal.Totals()
	assert.Equal(t, 500.0, got.Calories)
	assert.Equal(t, 25.0, got.Protein)
}

func TestLiveMeal_FollowsCatalogEdits(t *testing.T) {
	food := Nutrients{Calories: 100}
	meal := LiveMeal{Lines: []MealLine{{FoodID: "a", Food: &food, Quantity: 3}}}
	require.Equal(t, 300.0, meal.Totals().Calories)

	food.Calories = 120
	assert.Equal(t, 360.0, meal.Totals().Calories)
}

func TestLiveMeal_DanglingLineContributesZero(t *testing.T) {
	food := Nutrients{Calories: 100, Carbs: 10}
	meal := LiveMeal{Lines: []MealLine{
		{FoodID: "kept", Food: &food, Quantity: 1},
		{FoodID: "deleted", Food: nil, Quantity: 4},
	}}

	assert.Equal(t, 100.0, meal.Totals().Calories)
	assert.Equal(t, []string{"deleted"}, meal.Dangling())
}

func TestLogEntry_Validate(t *testing.T) {
	cases := []struct {
		name  string
		entry LogEntry
		want  error
	}{
		{"individual ok", LogEntry{Type: EntryIndividual, FoodID: strPtr("f"), Quantity: floatPtr(1)}, nil},
		{"meal ok", LogEntry{Type: EntryMeal, MealID: strPtr("m")}, nil},
		{"unknown type", LogEntry{Type: "snack", FoodID: strPtr("f")}, ErrEntryType},
		{"individual without food", LogEntry{Type: EntryIndividual, Quantity: floatPtr(1)}, ErrEntryReference},
		{"individual with meal id", LogEntry{Type: EntryIndividual, MealID: strPtr("m")}, ErrEntryReference},
		{"both ids", LogEntry{Type: EntryMeal, FoodID: strPtr("f"), MealID: strPtr("m")}, ErrEntryReference},
		{"meal without id", LogEntry{Type: EntryMeal}, ErrEntryReference},
		{"individual zero quantity", LogEntry{Type: EntryIndividual, FoodID: strPtr("f"), Quantity: floatPtr(0)}, ErrInvalidQuantity},
		{"individual missing quantity", LogEntry{Type: EntryIndividual, FoodID: strPtr("f")}, ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSnapshotIndividual_RoundsCaloriesOnly(t *testing.T) {
	food := Nutrients{Calories: 133.3, Carbs: 10.33, Protein: 1.01, TotalFat: 0.5}
	got := SnapshotIndividual(food, 1.5)
	assert.Equal(t, 200.0, got.Calories)
	assert.InDelta(t, 15.495, got.Carbs, eps)
	assert.InDelta(t, 1.515, got.Protein, eps)
}

func TestDayTotal_UsesSnapshots(t *testing.T) {
	food := Nutrients{Calories: 150}
	meal := LiveMeal{Lines: []MealLine{{FoodID: "x", Food: &Nutrients{Calories: 225}, Quantity: 2}}}

	entries := []LogEntry{
		{Type: EntryIndividual, FoodID: strPtr("f"), Quantity: floatPtr(2), Snapshot: SnapshotIndividual(food, 2)},
		{Type: EntryMeal, MealID: strPtr("m"), Snapshot: SnapshotMeal(meal)},
	}
	require.Equal(t, 750.0, DayTotal(entries).Calories)

	// Later edits to the catalog item or the meal do not move the day.
	food.Calories = 999
	meal.Lines[0].Food.Calories = 1
	assert.Equal(t, 750.0, DayTotal(entries).Calories)
}

func TestDayTotal_SurvivesCatalogDeletion(t *testing.T) {
	entry := LogEntry{Type: EntryIndividual, FoodID: strPtr("gone"), Quantity: floatPtr(1),
		Snapshot: Nutrients{Calories: 300, Protein: 20}}

	// There is no catalog lookup on this path; the snapshot alone answers.
	current, live := EntryView(entry, nil)
	assert.False(t, live)
	assert.Equal(t, entry.Snapshot, current)
	assert.Equal(t, 300.0, DayTotal([]LogEntry{entry}).Calories)
}

func TestEntryView_MealFallsBackWhenDeleted(t *testing.T) {
	entry := LogEntry{Type: EntryMeal, MealID: strPtr("m"), Snapshot: Nutrients{Calories: 450}}

	current, live := EntryView(entry, nil)
	assert.False(t, live)
	assert.Equal(t, 450.0, current.Calories)

	meal := LiveMeal{Lines: []MealLine{{FoodID: "a", Food: &Nutrients{Calories: 250}, Quantity: 2}}}
	current, live = EntryView(entry, &meal)
	assert.True(t, live)
	assert.Equal(t, 500.0, current.Calories)
}
