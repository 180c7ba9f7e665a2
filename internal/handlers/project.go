package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projects repository.ProjectRepository
}

func NewProjectHandler(projects repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects returns all projects with their tasks embedded.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List("Tasks")
	if err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns a project with tasks, activity and materials.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	full, err := h.projects.FindByID(project.ID, "Tasks", "Tasks.Activity", "Tasks.Materials")
	if err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, full)
}

// CreateProject creates a project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Number        string `json:"number" binding:"required"`
		ClientName    string `json:"client_name" binding:"required"`
		ClientAddress string `json:"client_address"`
		ColorTag      string `json:"color_tag"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project := &models.Project{
		Number:        req.Number,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		Status:        models.ProjectStatusActive,
		ColorTag:      req.ColorTag,
	}

	if err := h.projects.Create(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apierrors.Conflict(c, "Project number already exists")
			return
		}
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject updates project fields in place.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Number        *string               `json:"number"`
		ClientName    *string               `json:"client_name"`
		ClientAddress *string               `json:"client_address"`
		Status        *models.ProjectStatus `json:"status"`
		ColorTag      *string               `json:"color_tag"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Number != nil {
		project.Number = *req.Number
	}
	if req.ClientName != nil {
		project.ClientName = *req.ClientName
	}
	if req.ClientAddress != nil {
		project.ClientAddress = *req.ClientAddress
	}
	if req.Status != nil {
		if !models.ValidProjectStatus(*req.Status) {
			apierrors.BadRequest(c, "Unknown project status")
			return
		}
		project.Status = *req.Status
	}
	if req.ColorTag != nil {
		project.ColorTag = *req.ColorTag
	}

	project.Tasks = nil // avoid re-saving embedded tasks
	if err := h.projects.Update(&project); err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and cascades to its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(project.ID); err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// taskLineItem is one task row, entered manually or from a parsed estimate.
type taskLineItem struct {
	Description    string          `json:"description" binding:"required"`
	Quantity       float64         `json:"quantity"`
	UnitPrice      float64         `json:"unit_price"`
	Type           models.TaskType `json:"type"`
	EstimatedHours float64         `json:"estimated_hours"`
	Materials      []struct {
		Name          string  `json:"name" binding:"required"`
		Quantity      float64 `json:"quantity"`
		Unit          string  `json:"unit"`
		EstimatedCost float64 `json:"estimated_cost"`
	} `json:"materials"`
}

func (item *taskLineItem) toTask(projectID uint64) (*models.Task, error) {
	taskType := item.Type
	if taskType == "" {
		taskType = models.TaskTypeOther
	}
	if !models.ValidTaskType(taskType) {
		return nil, errors.New("unknown task type")
	}
	if item.EstimatedHours < 0 {
		return nil, errors.New("estimated_hours must not be negative")
	}

	task := &models.Task{
		ProjectID:      projectID,
		Description:    item.Description,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		Amount:         item.Quantity * item.UnitPrice,
		Type:           taskType,
		EstimatedHours: item.EstimatedHours,
		Status:         models.TaskStatusUnassigned,
	}

	for _, m := range item.Materials {
		task.Materials = append(task.Materials, models.Material{
			Name:          m.Name,
			Quantity:      m.Quantity,
			Unit:          m.Unit,
			EstimatedCost: m.EstimatedCost,
		})
	}

	return task, nil
}

// CreateTask adds a single task to a project (manual entry). Amount is
// computed from quantity and unit price at creation.
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	var req taskLineItem
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := req.toTask(project.ID)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if err := h.projects.CreateTask(task); err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ImportTasks adds a batch of tasks from parsed estimate line items.
func (h *ProjectHandler) ImportTasks(c *gin.Context) {
	project, ok := projectFromContext(c)
	if !ok {
		return
	}

	type ImportTasksRequest struct {
		Items []taskLineItem `json:"items" binding:"required"`
	}

	var req ImportTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		apierrors.BadRequest(c, "At least one line item is required")
		return
	}

	created := make([]models.Task, 0, len(req.Items))
	for _, item := range req.Items {
		task, err := item.toTask(project.ID)
		if err != nil {
			apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"description": item.Description})
			return
		}
		if err := h.projects.CreateTask(task); err != nil {
			apierrors.StoreUnavailable(c, "")
			return
		}
		created = append(created, *task)
	}

	c.JSON(http.StatusCreated, gin.H{"tasks": created})
}

// DeleteTask removes a task. Tasks are never deleted implicitly; this is the
// explicit admin removal path.
func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	if err := h.projects.DeleteTask(task.ProjectID, task.ID); err != nil {
		apierrors.StoreUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
