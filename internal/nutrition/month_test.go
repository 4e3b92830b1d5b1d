package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupByDay(t *testing.T) {
	entries := []DatedEntry{
		{Date: "2026-10-03", Entry: LogEntry{Snapshot: Nutrients{Calories: 300, Fiber: Some(4)}}},
		{Date: "2026-10-03", Entry: LogEntry{Snapshot: Nutrients{Calories: 450}}},
		{Date: "2026-10-05", Entry: LogEntry{Snapshot: Nutrients{Calories: 200}}},
	}
	days := GroupByDay(entries)
	require.Len(t, days, 2)
	assert.Equal(t, 750.0, days["2026-10-03"].Totals.Calories)
	assert.Equal(t, 2, days["2026-10-03"].EntryCount)
	assert.Equal(t, Some(4), days["2026-10-03"].Totals.Fiber)
	assert.False(t, days["2026-10-05"].Totals.Fiber.Valid)
}

func TestCalendarGrid_StartsOnSunday(t *testing.T) {
	grid := CalendarGrid(day(2026, time.October, 15), day(2026, time.October, 15), nil)
	require.Len(t, grid, 42)

	assert.Equal(t, "2026-09-27", grid[0].Date)
	assert.False(t, grid[0].InMonth)
	assert.Equal(t, "2026-10-01", grid[4].Date)
	assert.True(t, grid[4].InMonth)
	assert.Equal(t, "2026-11-07", grid[41].Date)

	var today []string
	for _, d := range grid {
		if d.IsToday {
			today = append(today, d.Date)
		}
	}
	assert.Equal(t, []string{"2026-10-15"}, today)
}

func TestCalendarGrid_MonthStartingSunday(t *testing.T) {
	grid := CalendarGrid(day(2026, time.February, 1), day(2025, time.January, 1), nil)
	assert.Equal(t, "2026-02-01", grid[0].Date)
	assert.Equal(t, 1, grid[0].Day)
	assert.Equal(t, 2, grid[0].Month)
	assert.Equal(t, 2026, grid[0].Year)
	assert.Equal(t, 28, MonthStats(grid).TotalDays)
}

func TestMonthStats_AveragesOverLoggedDays(t *testing.T) {
	days := map[string]DaySummary{
		"2026-10-01": {Date: "2026-10-01", Totals: Nutrients{Calories: 2000, Protein: 100}, EntryCount: 3},
		"2026-10-02": {Date: "2026-10-02", Totals: Nutrients{Calories: 1000, Protein: 50}, EntryCount: 1},
		// Outside the month; must not count.
		"2026-09-30": {Date: "2026-09-30", Totals: Nutrients{Calories: 9999}, EntryCount: 1},
	}
	grid := CalendarGrid(day(2026, time.October, 1), day(2026, time.October, 2), days)
	stats := MonthStats(grid)

	assert.Equal(t, 31, stats.TotalDays)
	assert.Equal(t, 2, stats.DaysWithEntries)
	assert.Equal(t, 3000.0, stats.Totals.Calories)
	assert.Equal(t, 1500.0, stats.Averages.Calories)
	assert.Equal(t, 75.0, stats.Averages.Protein)
	assert.Equal(t, 6.0, stats.CompletionRate)
}

func TestMonthStats_EmptyMonth(t *testing.T) {
	stats := MonthStats(CalendarGrid(day(2026, time.October, 1), day(2026, time.October, 1), nil))
	assert.Equal(t, 0, stats.DaysWithEntries)
	assert.Equal(t, Nutrients{}, stats.Averages)
	assert.Equal(t, 0.0, stats.CompletionRate)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(day(2024, time.February, 17))
	assert.Equal(t, day(2024, time.February, 1), first)
	assert.Equal(t, day(2024, time.February, 29), last)
}
