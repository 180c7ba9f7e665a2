package handlers

import (
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendar *services.CalendarService
}

func NewCalendarHandler(calendar *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Week returns the weekly grid: unscheduled bucket plus five working days,
// grouped by crew or project.
func (h *CalendarHandler) Week(c *gin.Context) {
	start := time.Now()
	if startStr := c.Query("start"); startStr != "" {
		parsed, err := time.Parse(scheduledDateLayout, startStr)
		if err != nil {
			apierrors.BadRequest(c, "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}

	input := services.WeekInput{
		Start: start,
		View:  c.DefaultQuery("view", services.ViewCrew),
	}

	if projectStr := c.Query("project_id"); projectStr != "" {
		projectID, err := strconv.ParseUint(projectStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.FilterProject = &projectID
	}
	if workerStr := c.Query("worker_id"); workerStr != "" {
		workerID, err := strconv.ParseUint(workerStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid worker_id")
			return
		}
		input.FilterWorker = &workerID
	}

	week, err := h.calendar.BuildWeek(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, week)
}

// ScheduleTask places a task on a day of the given week. The calendar's
// only write path into the task model; overwrites any existing date.
func (h *CalendarHandler) ScheduleTask(c *gin.Context) {
	type ScheduleTaskRequest struct {
		TaskID    uint64 `json:"task_id" binding:"required"`
		ProjectID uint64 `json:"project_id" binding:"required"`
		WeekStart string `json:"week_start" binding:"required"`
		DayIndex  *int   `json:"day_index" binding:"required"`
	}

	var req ScheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	weekStart, err := time.Parse(scheduledDateLayout, req.WeekStart)
	if err != nil {
		apierrors.BadRequest(c, "week_start must be YYYY-MM-DD")
		return
	}

	task, err := h.calendar.ScheduleTask(req.ProjectID, req.TaskID, weekStart, *req.DayIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}
