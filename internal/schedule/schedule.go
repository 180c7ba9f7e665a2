// Package schedule holds the pure calendar math shared by the crew and
// project calendar views: week-start normalization, day bucketing, and the
// overload/conflict detector.
package schedule

import (
	"math"
	"time"

	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/buildcrew/crew-management-api/internal/models"
)

// UnscheduledIndex is the bucket for assigned tasks without a calendar date.
// It is shown regardless of the requested week.
const UnscheduledIndex = -1

// WeekStart normalizes t to the Monday of its containing week at midnight.
// Sunday maps to the previous Monday.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	wd := int(day.Weekday())
	diff := 1 - wd
	if wd == 0 {
		diff = -6
	}
	return day.AddDate(0, 0, diff)
}

// DayIndex returns the zero-based weekday column for a scheduled date
// relative to weekStart, or UnscheduledIndex when the task has no date.
// Rounding absorbs DST-shortened or -lengthened days.
func DayIndex(scheduled *time.Time, weekStart time.Time) int {
	if scheduled == nil {
		return UnscheduledIndex
	}
	d := time.Date(scheduled.Year(), scheduled.Month(), scheduled.Day(), 0, 0, 0, 0, weekStart.Location())
	return int(math.Round(d.Sub(weekStart).Hours() / 24))
}

// InVisibleWeek reports whether a day index falls inside the rendered grid:
// the unscheduled bucket plus the five working days.
func InVisibleWeek(dayIndex int) bool {
	return dayIndex >= UnscheduledIndex && dayIndex < constants.WorkingDays
}

// DateForIndex returns the calendar date of a day column in the given week.
func DateForIndex(weekStart time.Time, dayIndex int) time.Time {
	return weekStart.AddDate(0, 0, dayIndex)
}

type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// CellLoad is the aggregate workload signal for one worker-day or
// project-day cell.
type CellLoad struct {
	TotalHours   float64  `json:"total_hours"`
	IsOverloaded bool     `json:"is_overloaded"`
	HasMultiple  bool     `json:"has_multiple"`
	Severity     Severity `json:"severity"`
}

// Detect computes the workload signal for the tasks in one cell. Pure and
// deterministic; missing estimates count as zero.
func Detect(tasks []models.Task) CellLoad {
	var total float64
	for _, t := range tasks {
		total += t.EstimatedHours
	}

	load := CellLoad{
		TotalHours:   total,
		IsOverloaded: total > constants.WorkdayHours,
		HasMultiple:  len(tasks) > 1,
		Severity:     SeverityNone,
	}

	if load.IsOverloaded {
		if load.HasMultiple {
			load.Severity = SeverityHigh
		} else {
			load.Severity = SeverityWarning
		}
	}

	return load
}
