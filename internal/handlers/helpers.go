package handlers

import (
	"errors"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service-layer errors into HTTP responses.
// Unrecognized errors are wrapped store failures and surface as retryable
// 503s rather than fabricated successes.
func respondServiceError(c *gin.Context, err error) {
	var transition *services.TransitionError
	if errors.As(err, &transition) {
		apierrors.InvalidTransition(c, transition.Error(), gin.H{
			"task_id":        transition.TaskID,
			"current_status": transition.Current,
			"action":         transition.Action,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrWorkerNotFound),
		errors.Is(err, services.ErrThreadNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAssignee):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrPINTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrWorkerRequired),
		errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, services.ErrMessageTextEmpty),
		errors.Is(err, services.ErrMessageSenderEmpty),
		errors.Is(err, services.ErrWorkerNameRequired),
		errors.Is(err, services.ErrPINFormat),
		errors.Is(err, services.ErrInvalidView),
		errors.Is(err, services.ErrInvalidDayIndex):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.StoreUnavailable(c, "")
	}
}

// taskFromContext fetches the task loaded by RequireTaskAccess.
func taskFromContext(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get("task")
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return models.Task{}, false
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return models.Task{}, false
	}

	return task, true
}

// projectFromContext fetches the project loaded by RequireProjectAccess.
func projectFromContext(c *gin.Context) (models.Project, bool) {
	projectInterface, exists := c.Get("project")
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return models.Project{}, false
	}

	project, ok := projectInterface.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Invalid project data")
		return models.Project{}, false
	}

	return project, true
}
