package nutrition

import (
	"errors"
	"fmt"
)

var (
	ErrEntryType      = errors.New("entry type must be individual or meal")
	ErrEntryReference = errors.New("entry must reference exactly one of food_catalog_id or meal_id, matching its type")
)

// EntryType is fixed when a log entry is created and never changes.
type EntryType string

const (
	EntryIndividual EntryType = "individual"
	EntryMeal       EntryType = "meal"
)

func (t EntryType) Valid() bool {
	return t == EntryIndividual || t == EntryMeal
}

/* ─── Live view: meals ───────────────────────────────────────────────── */

// MealLine is one food in a meal. Food holds the catalog item's current
// per-unit nutrients, or nil when the item has since been deleted.
type MealLine struct {
	FoodID   string
	Food     *Nutrients
	Quantity float64
}

// LiveMeal recomputes its totals from the current catalog values every time,
// so an edit to a catalog item changes every meal that uses it.
type LiveMeal struct {
	Lines []MealLine
}

// Totals sums the scaled lines. Dangling lines contribute nothing.
func (m LiveMeal) Totals() Nutrients {
	scaled := make([]Nutrients, 0, len(m.Lines))
	for _, l := range m.Lines {
		if l.Food == nil {
			continue
		}
		scaled = append(scaled, Scale(*l.Food, l.Quantity))
	}
	return Sum(scaled...)
}

// Dangling lists the food ids whose catalog items no longer resolve.
func (m LiveMeal) Dangling() []string {
	var ids []string
	for _, l := range m.Lines {
		if l.Food == nil {
			ids = append(ids, l.FoodID)
		}
	}
	return ids
}

/* ─── Frozen record: log entries ─────────────────────────────────────── */

// LogEntry is a logged food or meal. Snapshot is copied at creation time and
// never recomputed, so logged history does not move when catalog data does.
type LogEntry struct {
	Type     EntryType
	FoodID   *string
	MealID   *string
	Quantity *float64
	Snapshot Nutrients
}

// Validate checks that exactly one reference is set and that it matches Type.
func (e LogEntry) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrEntryType, e.Type)
	}
	hasFood := e.FoodID != nil && *e.FoodID != ""
	hasMeal := e.MealID != nil && *e.MealID != ""
	switch {
	case e.Type == EntryIndividual && hasFood && !hasMeal:
		if e.Quantity == nil {
			return fmt.Errorf("individual entry: %w", ErrInvalidQuantity)
		}
		return ValidQuantity(*e.Quantity)
	case e.Type == EntryMeal && hasMeal && !hasFood:
		return nil
	}
	return ErrEntryReference
}

// SnapshotIndividual freezes the nutrients for q servings of food. Calories are
// rounded to a whole number here; everything else keeps full precision.
func SnapshotIndividual(food Nutrients, q float64) Nutrients {
	s := Scale(food, q)
	s.Calories = RoundCalories(s.Calories)
	return s
}

// SnapshotMeal freezes the meal's current live totals.
func SnapshotMeal(m LiveMeal) Nutrients {
	s := m.Totals()
	s.Calories = RoundCalories(s.Calories)
	return s
}

// DayTotal sums the snapshots of a day's entries. It never consults live data.
func DayTotal(entries []LogEntry) Nutrients {
	snaps := make([]Nutrients, len(entries))
	for i, e := range entries {
		snaps[i] = e.Snapshot
	}
	return Sum(snaps...)
}

// EntryView returns what an entry currently amounts to. Meal entries whose meal
// still resolves report the live totals; everything else, including meal
// entries whose meal was deleted, falls back to the snapshot.
func EntryView(e LogEntry, live *LiveMeal) (current Nutrients, isLive bool) {
	if e.Type == EntryMeal && live != nil {
		return live.Totals(), true
	}
	return e.Snapshot, false
}
