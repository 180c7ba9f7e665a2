package dto

import (
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/schedule"
)

// CalendarTaskDTO is a task denormalized with project metadata for calendar
// rendering.
type CalendarTaskDTO struct {
	ID             uint64            `json:"id"`
	ProjectID      uint64            `json:"project_id"`
	ProjectNumber  string            `json:"project_number"`
	ColorTag       string            `json:"color_tag"`
	Description    string            `json:"description"`
	Type           models.TaskType   `json:"type"`
	Status         models.TaskStatus `json:"status"`
	EstimatedHours float64           `json:"estimated_hours"`
	AssignedTo     *uint64           `json:"assigned_to"`
	ScheduledDate  *time.Time        `json:"scheduled_date"`
}

// CellDTO is one worker-day or project-day cell in the calendar grid.
type CellDTO struct {
	GroupID    uint64            `json:"group_id"`
	GroupLabel string            `json:"group_label"`
	Tasks      []CalendarTaskDTO `json:"tasks"`
	Load       schedule.CellLoad `json:"load"`
	Conflict   bool              `json:"conflict"`
}

// DayDTO is one working-day column of the week grid.
type DayDTO struct {
	Date  string    `json:"date"`
	Cells []CellDTO `json:"cells"`
}

// WeekResponse is the full weekly grid: the unscheduled bucket plus five
// working days.
type WeekResponse struct {
	WeekStart   string    `json:"week_start"`
	View        string    `json:"view"`
	Unscheduled []CellDTO `json:"unscheduled"`
	Days        []DayDTO  `json:"days"`
}

// ToCalendarTaskDTO converts a task (with Project preloaded) for calendar
// rendering.
func ToCalendarTaskDTO(task models.Task) CalendarTaskDTO {
	return CalendarTaskDTO{
		ID:             task.ID,
		ProjectID:      task.ProjectID,
		ProjectNumber:  task.Project.Number,
		ColorTag:       task.Project.ColorTag,
		Description:    task.Description,
		Type:           task.Type,
		Status:         task.Status,
		EstimatedHours: task.EstimatedHours,
		AssignedTo:     task.AssignedTo,
		ScheduledDate:  task.ScheduledDate,
	}
}
