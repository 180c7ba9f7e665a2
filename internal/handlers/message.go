package handlers

import (
	"net/http"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/middleware"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// WorkerThreads lists the message threads for the session worker's assigned
// tasks, with unread counts from the worker's perspective.
func (h *MessageHandler) WorkerThreads(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	threads, err := h.messages.ListForWorker(workerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

type sendMessageRequest struct {
	ProjectID uint64 `json:"project_id" binding:"required"`
	TaskID    uint64 `json:"task_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// WorkerSendMessage appends a worker message to the task's thread.
func (h *MessageHandler) WorkerSendMessage(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messages.SendMessage(req.ProjectID, req.TaskID, req.Text, services.WorkerSender(workerID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

type markReadRequest struct {
	ProjectID uint64 `json:"project_id" binding:"required"`
	TaskID    uint64 `json:"task_id" binding:"required"`
}

// WorkerMarkRead marks every message in the thread not authored by the
// session worker as read.
func (h *MessageHandler) WorkerMarkRead(c *gin.Context) {
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.messages.MarkThreadRead(req.ProjectID, req.TaskID, services.WorkerSender(workerID)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread marked read"})
}

// AdminThread returns one thread from the admin's perspective.
func (h *MessageHandler) AdminThread(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	thread, err := h.messages.GetThread(task.ProjectID, task.ID, models.SenderAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// AdminSendMessage appends an office message to the task's thread. Office
// messages notify the assigned worker.
func (h *MessageHandler) AdminSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messages.SendMessage(req.ProjectID, req.TaskID, req.Text, models.SenderAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// AdminMarkRead marks every worker-authored message in the thread as read.
func (h *MessageHandler) AdminMarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.messages.MarkThreadRead(req.ProjectID, req.TaskID, models.SenderAdmin); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread marked read"})
}
