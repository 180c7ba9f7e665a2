package middleware

import (
	"strconv"

	"github.com/buildcrew/crew-management-api/internal/database"
	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireProjectAccess loads the project named by the :id route parameter
// into the context. Admin surface only.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Tasks").
			First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Next()
	}
}

// RequireTaskAccess loads the task named by the :id (project) and :task_id
// route parameters, with activity and materials. Workers may only reach
// tasks assigned to them; admin sessions reach everything.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}
		taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Project").
			Preload("Activity").
			Preload("Materials").
			Where("project_id = ?", projectID).
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if !IsAdmin(c) {
			workerID, exists := GetWorkerID(c)
			if !exists {
				apierrors.Unauthorized(c, "")
				c.Abort()
				return
			}
			// 404 instead of 403 to avoid leaking task existence
			if task.AssignedTo == nil || *task.AssignedTo != workerID {
				apierrors.NotFound(c, "Task not found")
				c.Abort()
				return
			}
		}

		c.Set("task", task)
		c.Next()
	}
}
