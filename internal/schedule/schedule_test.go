package schedule

import (
	"testing"
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{"monday stays", date(2025, time.September, 8), date(2025, time.September, 8)},
		{"wednesday shifts back two", date(2025, time.September, 10), date(2025, time.September, 8)},
		{"sunday maps to previous monday", date(2025, time.September, 14), date(2025, time.September, 8)},
		{"saturday shifts back five", date(2025, time.September, 13), date(2025, time.September, 8)},
		{"time of day is dropped", time.Date(2025, time.September, 10, 17, 30, 0, 0, time.UTC), date(2025, time.September, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.input); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDayIndex(t *testing.T) {
	weekStart := date(2025, time.September, 8)

	if got := DayIndex(nil, weekStart); got != UnscheduledIndex {
		t.Errorf("DayIndex(nil) = %d, want %d", got, UnscheduledIndex)
	}

	tests := []struct {
		name      string
		scheduled time.Time
		want      int
	}{
		{"monday", date(2025, time.September, 8), 0},
		{"wednesday", date(2025, time.September, 10), 2},
		{"friday", date(2025, time.September, 12), 4},
		{"saturday is outside the grid", date(2025, time.September, 13), 5},
		{"next monday", date(2025, time.September, 15), 7},
		{"previous friday", date(2025, time.September, 5), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayIndex(&tt.scheduled, weekStart); got != tt.want {
				t.Errorf("DayIndex(%v) = %d, want %d", tt.scheduled, got, tt.want)
			}
		})
	}
}

func TestInVisibleWeek(t *testing.T) {
	tests := []struct {
		day  int
		want bool
	}{
		{-2, false},
		{UnscheduledIndex, true},
		{0, true},
		{4, true},
		{5, false},
		{7, false},
	}
	for _, tt := range tests {
		if got := InVisibleWeek(tt.day); got != tt.want {
			t.Errorf("InVisibleWeek(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	mk := func(hours ...float64) []models.Task {
		tasks := make([]models.Task, len(hours))
		for i, h := range hours {
			tasks[i] = models.Task{EstimatedHours: h}
		}
		return tasks
	}

	tests := []struct {
		name       string
		tasks      []models.Task
		total      float64
		overloaded bool
		multiple   bool
		severity   Severity
	}{
		{"empty cell", mk(), 0, false, false, SeverityNone},
		{"single light task", mk(3), 3, false, false, SeverityNone},
		{"exactly eight hours", mk(8), 8, false, false, SeverityNone},
		{"single long task warns", mk(9), 9, true, false, SeverityWarning},
		{"two tasks within capacity", mk(3, 4), 7, false, true, SeverityNone},
		{"five plus four is a conflict", mk(5, 4), 9, true, true, SeverityHigh},
		{"missing estimates count as zero", mk(0, 0, 9), 9, true, true, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.tasks)
			if got.TotalHours != tt.total {
				t.Errorf("TotalHours = %v, want %v", got.TotalHours, tt.total)
			}
			if got.IsOverloaded != tt.overloaded {
				t.Errorf("IsOverloaded = %v, want %v", got.IsOverloaded, tt.overloaded)
			}
			if got.HasMultiple != tt.multiple {
				t.Errorf("HasMultiple = %v, want %v", got.HasMultiple, tt.multiple)
			}
			if got.Severity != tt.severity {
				t.Errorf("Severity = %q, want %q", got.Severity, tt.severity)
			}
		})
	}
}
