package nutrition

import (
	"math"
	"time"
)

// DateLayout is the calendar-day key used throughout.
const DateLayout = "2006-01-02"

// calendarCells is six Sunday-first weeks, enough for any month.
const calendarCells = 42

// DatedEntry is a log entry tagged with the calendar day it belongs to.
type DatedEntry struct {
	Date  string
	Entry LogEntry
}

// DaySummary is the snapshot total for one calendar day.
type DaySummary struct {
	Date       string    `json:"date"`
	Totals     Nutrients `json:"totals"`
	EntryCount int       `json:"entry_count"`
}

// GroupByDay folds entries into per-day snapshot totals keyed by date.
func GroupByDay(entries []DatedEntry) map[string]DaySummary {
	days := make(map[string]DaySummary)
	for _, de := range entries {
		d := days[de.Date]
		d.Date = de.Date
		d.Totals = Add(d.Totals, de.Entry.Snapshot)
		d.EntryCount++
		days[de.Date] = d
	}
	return days
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	DaySummary
	Day        int  `json:"day"`
	Month      int  `json:"month"`
	Year       int  `json:"year"`
	InMonth    bool `json:"is_current_month"`
	IsToday    bool `json:"is_today"`
	HasEntries bool `json:"has_entries"`
}

// MonthStart truncates t to the first day of its month, keeping t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first and last calendar day of t's month.
func MonthRange(t time.Time) (first, last time.Time) {
	first = MonthStart(t)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// CalendarGrid lays out 42 days starting on the Sunday on or before the first
// of month. Days missing from days get zero totals.
func CalendarGrid(month, today time.Time, days map[string]DaySummary) []CalendarDay {
	first := MonthStart(month)
	// AddDate keeps month and year boundaries straight.
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayKey := today.Format(DateLayout)

	grid := make([]CalendarDay, calendarCells)
	for i := range grid {
		d := start.AddDate(0, 0, i)
		key := d.Format(DateLayout)
		summary, ok := days[key]
		if !ok {
			summary = DaySummary{Date: key}
		}
		grid[i] = CalendarDay{
			DaySummary: summary,
			Day:        d.Day(),
			Month:      int(d.Month()),
			Year:       d.Year(),
			InMonth:    d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday:    key == todayKey,
			HasEntries: summary.EntryCount > 0,
		}
	}
	return grid
}

// MonthlyStats is the month overview shown under the calendar.
type MonthlyStats struct {
	TotalDays       int       `json:"total_days"`
	DaysWithEntries int       `json:"days_with_entries"`
	CompletionRate  float64   `json:"completion_rate"`
	Totals          Nutrients `json:"totals"`
	Averages        Nutrients `json:"averages"`
}

// MonthStats rolls up the in-month cells of a grid. Averages divide by the
// number of days with at least one entry, not by the length of the month.
func MonthStats(grid []CalendarDay) MonthlyStats {
	var stats MonthlyStats
	var totals []Nutrients
	for _, d := range grid {
		if !d.InMonth {
			continue
		}
		stats.TotalDays++
		if d.HasEntries {
			stats.DaysWithEntries++
		}
		totals = append(totals, d.Totals)
	}
	stats.Totals = Sum(totals...)
	if stats.DaysWithEntries > 0 {
		stats.Averages = Scale(stats.Totals, 1/float64(stats.DaysWithEntries))
	}
	if stats.TotalDays > 0 {
		stats.CompletionRate = math.Round(float64(stats.DaysWithEntries) / float64(stats.TotalDays) * 100)
	}
	return stats
}
