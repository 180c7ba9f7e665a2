package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/middleware"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	lifecycle *services.LifecycleService
}

func NewTaskHandler(lifecycle *services.LifecycleService) *TaskHandler {
	return &TaskHandler{lifecycle: lifecycle}
}

const scheduledDateLayout = "2006-01-02"

// AssignTask hands a task to a worker (admin action). Valid only from
// unassigned or rejected.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type AssignTaskRequest struct {
		WorkerID       uint64   `json:"worker_id" binding:"required"`
		ScheduledDate  string   `json:"scheduled_date"`
		EstimatedHours *float64 `json:"estimated_hours"`
		AssignedBy     string   `json:"assigned_by"`
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.AssignInput{
		ProjectID:      task.ProjectID,
		TaskID:         task.ID,
		WorkerID:       req.WorkerID,
		EstimatedHours: req.EstimatedHours,
		AssignedBy:     req.AssignedBy,
	}

	if req.ScheduledDate != "" {
		date, err := time.Parse(scheduledDateLayout, req.ScheduledDate)
		if err != nil {
			apierrors.BadRequest(c, "scheduled_date must be YYYY-MM-DD")
			return
		}
		input.ScheduledDate = &date
	}

	updated, err := h.lifecycle.Assign(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// WorkerUpdateTask applies a worker lifecycle action:
// accept, reject, start, or complete.
func (h *TaskHandler) WorkerUpdateTask(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type WorkerUpdateRequest struct {
		Action string `json:"action" binding:"required"`
		Reason string `json:"reason"`
	}

	var req WorkerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	action := models.TaskAction(req.Action)
	switch action {
	case models.ActionAccept, models.ActionReject, models.ActionStart, models.ActionComplete:
	default:
		apierrors.BadRequest(c, "action must be accept, reject, start or complete")
		return
	}

	updated, err := h.lifecycle.ApplyWorkerAction(task.ProjectID, task.ID, workerID, action, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// WorkerTasks lists the tasks currently assigned to the session worker.
func (h *TaskHandler) WorkerTasks(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.lifecycle.ListForWorker(workerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
