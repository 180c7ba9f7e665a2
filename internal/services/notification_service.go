package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/utils"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService creates notification records as side effects of
// lifecycle and messaging events and owns the per-worker visibility filter.
type NotificationService struct {
	notifications repository.NotificationRepository
	projects      repository.ProjectRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repository.NotificationRepository, projects repository.ProjectRepository) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		projects:      projects,
	}
}

// DispatchInput represents a notification to create. A nil TargetWorkerID
// addresses the admin feed.
type DispatchInput struct {
	Type           models.NotificationType
	Title          string
	Message        string
	ProjectID      uint64
	TaskID         uint64
	TargetWorkerID *uint64
	Priority       models.NotificationPriority
}

// Dispatch creates a notification record.
func (s *NotificationService) Dispatch(input DispatchInput) (*models.Notification, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	notification := &models.Notification{
		Type:           input.Type,
		Title:          input.Title,
		Message:        input.Message,
		ProjectID:      input.ProjectID,
		TaskID:         input.TaskID,
		TargetWorkerID: input.TargetWorkerID,
		Timestamp:      time.Now(),
		Priority:       input.Priority,
	}

	if err := s.notifications.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// ListForWorker returns the notifications visible to a worker: unread,
// referencing a task currently assigned to them, and never task_rejected
// (rejection notices are consumed by the admin feed only). A non-nil since
// restricts the result to notifications created after that instant, for
// delta polling.
func (s *NotificationService) ListForWorker(workerID uint64, since *time.Time) ([]models.Notification, error) {
	if workerID == 0 {
		return nil, ErrWorkerRequired
	}

	notifications, err := s.notifications.List(repository.NotificationFilter{
		TargetWorkerID: &workerID,
		UnreadOnly:     true,
		Since:          since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	assigned, err := s.assignedTaskIDs(workerID)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Type == models.NotificationTaskRejected {
			continue
		}
		if !assigned[n.TaskID] {
			continue
		}
		visible = append(visible, n)
	}

	return visible, nil
}

// ListAll returns a page of the admin feed, unfiltered, plus the total
// matching count.
func (s *NotificationService) ListAll(since *time.Time, page *utils.PaginationParams) ([]models.Notification, int64, error) {
	filter := repository.NotificationFilter{Since: since, Pagination: page}

	notifications, err := s.notifications.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	filter.Pagination = nil
	total, err := s.notifications.Count(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead marks a single notification read.
func (s *NotificationService) MarkRead(id uint64) error {
	if err := s.notifications.MarkRead(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkReadForWorker marks a notification read on behalf of a worker. A
// notification targeting a different worker (or nobody) is indistinguishable
// from a missing one.
func (s *NotificationService) MarkReadForWorker(workerID, id uint64) error {
	if workerID == 0 {
		return ErrWorkerRequired
	}
	if err := s.notifications.MarkReadForWorker(id, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// ClearForWorker marks every notification currently visible to the worker
// as read. Non-destructive: nothing is deleted.
func (s *NotificationService) ClearForWorker(workerID uint64) error {
	visible, err := s.ListForWorker(workerID, nil)
	if err != nil {
		return err
	}

	ids := make([]uint64, len(visible))
	for i, n := range visible {
		ids[i] = n.ID
	}

	if err := s.notifications.MarkManyRead(ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) assignedTaskIDs(workerID uint64) (map[uint64]bool, error) {
	tasks, err := s.projects.ListTasks(repository.TaskFilter{AssignedTo: &workerID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assigned tasks: %w", err)
	}

	ids := make(map[uint64]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	return ids, nil
}
