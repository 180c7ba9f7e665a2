package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-gonic/gin"
)

type WorkerHandler struct {
	workers *services.WorkerService
}

func NewWorkerHandler(workers *services.WorkerService) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

type workerRequest struct {
	Name   string              `json:"name"`
	Phone  string              `json:"phone"`
	Email  string              `json:"email"`
	Role   string              `json:"role"`
	Status models.WorkerStatus `json:"status"`
	Skills string              `json:"skills"`
	PIN    string              `json:"pin"`
}

func (r workerRequest) toInput() services.WorkerInput {
	return services.WorkerInput{
		Name:   r.Name,
		Phone:  r.Phone,
		Email:  r.Email,
		Role:   r.Role,
		Status: r.Status,
		Skills: r.Skills,
		PIN:    r.PIN,
	}
}

// ListWorkers returns all workers.
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	workers, err := h.workers.ListWorkers()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// GetWorker returns a single worker.
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid worker ID")
		return
	}

	worker, err := h.workers.GetWorker(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

// CreateWorker creates a worker; a blank PIN is generated.
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	worker, err := h.workers.CreateWorker(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The create response is the one place the PIN is returned, so the
	// office can hand it to the worker.
	c.JSON(http.StatusCreated, gin.H{"worker": worker, "pin": worker.PIN})
}

// UpdateWorker updates a worker in place.
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid worker ID")
		return
	}

	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	worker, err := h.workers.UpdateWorker(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worker)
}

// DeleteWorker removes a worker.
func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid worker ID")
		return
	}

	if err := h.workers.DeleteWorker(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted successfully"})
}
