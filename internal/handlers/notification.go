package handlers

import (
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/middleware"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/buildcrew/crew-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// sinceParam parses the optional since query parameter used by polling
// clients to fetch deltas.
func sinceParam(c *gin.Context) (*time.Time, bool) {
	sinceStr := c.Query("since")
	if sinceStr == "" {
		return nil, true
	}
	since, err := time.Parse(time.RFC3339, sinceStr)
	if err != nil {
		apierrors.BadRequest(c, "since must be RFC3339")
		return nil, false
	}
	return &since, true
}

// WorkerList returns the notifications visible to the session worker.
func (h *NotificationHandler) WorkerList(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	since, ok := sinceParam(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.ListForWorker(workerID, since)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead marks a single notification read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// WorkerMarkRead marks a notification read on behalf of the session worker.
// Notifications targeting other workers read as not found.
func (h *NotificationHandler) WorkerMarkRead(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notifications.MarkReadForWorker(workerID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// WorkerClear marks every notification currently visible to the session
// worker as read. Nothing is deleted.
func (h *NotificationHandler) WorkerClear(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.notifications.ClearForWorker(workerID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

// AdminList returns the admin feed, unfiltered and paginated, including
// rejection notices suppressed from worker feeds.
func (h *NotificationHandler) AdminList(c *gin.Context) {
	since, ok := sinceParam(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notifications.ListAll(since, &params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
