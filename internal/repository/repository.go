package repository

import (
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/utils"
)

// ProjectRepository is the store adapter for projects and their embedded
// tasks. The calendar and messaging core always sees the denormalized
// project-with-tasks shape regardless of the underlying schema.
type ProjectRepository interface {
	// Create creates a new project, including any embedded tasks
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves all projects with their tasks embedded
	List(preload ...string) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and cascades to its tasks
	Delete(id uint64) error

	// CreateTask creates a task under a project
	CreateTask(task *models.Task) error

	// FindTask finds a task scoped to a project
	FindTask(projectID, taskID uint64, preload ...string) (*models.Task, error)

	// FindTaskByID finds a task by ID with optional preloading
	FindTaskByID(taskID uint64, preload ...string) (*models.Task, error)

	// ListTasks retrieves tasks matching the filter
	ListTasks(filter TaskFilter) ([]models.Task, error)

	// UpdateTaskScheduledDate writes only the scheduled_date column of a
	// task, leaving status and assignment untouched
	UpdateTaskScheduledDate(taskID uint64, date time.Time) error

	// UpdateTaskWithActivity persists a task mutation and its activity entry
	// in a single transaction; either both are visible or neither.
	UpdateTaskWithActivity(task *models.Task, entry *models.ActivityEntry) error

	// DeleteTask removes a task and its dependents (explicit admin action)
	DeleteTask(projectID, taskID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    *uint64
	AssignedTo   *uint64
	Status       *models.TaskStatus
	AssignedOnly bool
}

// WorkerRepository defines the interface for worker data access
type WorkerRepository interface {
	// Create creates a new worker
	Create(worker *models.Worker) error

	// FindByID finds a worker by ID
	FindByID(id uint64) (*models.Worker, error)

	// FindByPIN finds a worker by login PIN
	FindByPIN(pin string) (*models.Worker, error)

	// PINInUse reports whether another worker already holds the PIN
	PINInUse(pin string, excludeID uint64) (bool, error)

	// List retrieves all workers
	List() ([]models.Worker, error)

	// Update updates a worker
	Update(worker *models.Worker) error

	// Delete soft deletes a worker
	Delete(id uint64) error
}

// AdminRepository defines the interface for admin account access
type AdminRepository interface {
	// Create creates an admin account
	Create(admin *models.AdminUser) error

	// FindByUsername finds an admin by username
	FindByUsername(username string) (*models.AdminUser, error)
}

// MessageRepository defines the interface for message thread access
type MessageRepository interface {
	// FindThread finds the unique thread for a (project, task) pair
	FindThread(projectID, taskID uint64) (*models.MessageThread, error)

	// FindOrCreateThread returns the unique thread for a (project, task)
	// pair, creating it when absent
	FindOrCreateThread(projectID, taskID uint64) (*models.MessageThread, error)

	// ListThreads retrieves all threads with messages embedded
	ListThreads() ([]models.MessageThread, error)

	// AppendMessage appends one message to a thread
	AppendMessage(message *models.Message) error

	// MarkMessagesRead marks every message in a thread not authored by
	// excludeSender as read
	MarkMessagesRead(threadID uint64, excludeSender string) error
}

// NotificationRepository defines the interface for notification access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// List retrieves notifications matching the filter, most recent first
	List(filter NotificationFilter) ([]models.Notification, error)

	// Count counts notifications matching the filter, ignoring pagination
	Count(filter NotificationFilter) (int64, error)

	// MarkRead marks a single notification read
	MarkRead(id uint64) error

	// MarkReadForWorker marks a notification read only when it targets the
	// given worker; otherwise it reports gorm.ErrRecordNotFound
	MarkReadForWorker(id, workerID uint64) error

	// MarkManyRead marks a set of notifications read
	MarkManyRead(ids []uint64) error
}

// NotificationFilter holds filtering options for listing notifications
type NotificationFilter struct {
	TargetWorkerID *uint64
	UnreadOnly     bool
	Since          *time.Time
	Pagination     *utils.PaginationParams
}
