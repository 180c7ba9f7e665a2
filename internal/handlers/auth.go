package handlers

import (
	"errors"
	"net/http"

	"github.com/buildcrew/crew-management-api/internal/constants"
	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/middleware"
	"github.com/buildcrew/crew-management-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService   *services.AuthService
	workerService *services.WorkerService
}

func NewAuthHandler(authService *services.AuthService, workerService *services.WorkerService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		workerService: workerService,
	}
}

// WorkerLogin authenticates a worker by 4-digit PIN and opens a session.
func (h *AuthHandler) WorkerLogin(c *gin.Context) {
	type WorkerLoginRequest struct {
		PIN string `json:"pin" binding:"required"`
	}

	var req WorkerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	worker, err := h.authService.WorkerLogin(req.PIN)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPIN) || errors.Is(err, services.ErrWorkerInactive) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyWorkerID, worker.ID)
	session.Delete(constants.ContextKeyIsAdmin)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, worker)
}

// AdminLogin authenticates the office admin and opens an admin session.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	type AdminLoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	admin, err := h.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyIsAdmin, true)
	session.Delete(constants.ContextKeyWorkerID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": admin.Username})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the current session identity.
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessions.Default(c)

	if isAdmin, ok := session.Get(constants.ContextKeyIsAdmin).(bool); ok && isAdmin {
		c.JSON(http.StatusOK, gin.H{"role": "admin"})
		return
	}

	c.Set(constants.ContextKeyWorkerID, session.Get(constants.ContextKeyWorkerID))
	workerID, exists := middleware.GetWorkerID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	worker, err := h.workerService.GetWorker(workerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": "worker", "worker": worker})
}
