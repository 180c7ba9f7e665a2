package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/buildcrew/crew-management-api/internal/lock"
	"github.com/buildcrew/crew-management-api/internal/logging"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrWorkerRequired    = errors.New("worker id is required")
	ErrNotAssignee       = errors.New("task is not assigned to this worker")
	ErrUnknownAction     = errors.New("unknown task action")
	ErrRejectionRequired = errors.New("rejection reason is required")
)

// DefaultRejectionReason is recorded when a worker rejects without giving one.
const DefaultRejectionReason = "No reason provided"

// TransitionError reports a lifecycle action attempted from an illegal
// source state. The task record is left untouched.
type TransitionError struct {
	TaskID  uint64
	Current models.TaskStatus
	Action  models.TaskAction
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %d from status %q", e.Action, e.TaskID, e.Current)
}

// LifecycleService owns the task status state machine. Every transition is
// serialized per task id, appends exactly one activity entry in the same
// transaction as the status change, and dispatches a notification afterwards.
// The lock map is shared with every other writer of task rows (the calendar)
// so one key space serializes them all.
type LifecycleService struct {
	projects      repository.ProjectRepository
	workers       repository.WorkerRepository
	notifications *NotificationService
	locks         *lock.MutexMap
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(projects repository.ProjectRepository, workers repository.WorkerRepository, notifications *NotificationService, locks *lock.MutexMap) *LifecycleService {
	return &LifecycleService{
		projects:      projects,
		workers:       workers,
		notifications: notifications,
		locks:         locks,
	}
}

func taskKey(taskID uint64) string {
	return "task:" + strconv.FormatUint(taskID, 10)
}

// AssignInput represents input for assigning a task to a worker
type AssignInput struct {
	ProjectID      uint64
	TaskID         uint64
	WorkerID       uint64
	ScheduledDate  *time.Time
	EstimatedHours *float64
	AssignedBy     string
}

// Assign hands a task to a worker. Valid only from unassigned or rejected;
// clears any previous rejection reason.
func (s *LifecycleService) Assign(input AssignInput) (*models.Task, error) {
	if input.WorkerID == 0 {
		return nil, ErrWorkerRequired
	}

	key := taskKey(input.TaskID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	task, err := s.findTask(input.ProjectID, input.TaskID)
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.FindByID(input.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if !models.CanApply(models.ActionAssign, task.Status) {
		return nil, &TransitionError{TaskID: task.ID, Current: task.Status, Action: models.ActionAssign}
	}

	task.Status = models.TaskStatusPendingAcceptance
	task.AssignedTo = &worker.ID
	task.RejectionReason = ""
	if input.ScheduledDate != nil {
		task.ScheduledDate = input.ScheduledDate
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = *input.EstimatedHours
	}

	actor := input.AssignedBy
	if actor == "" {
		actor = models.SenderAdmin
	}
	entry := newActivityEntry(task.ID, "assigned", actor, fmt.Sprintf("Assigned to %s", worker.Name))

	if err := s.projects.UpdateTaskWithActivity(task, entry); err != nil {
		return nil, fmt.Errorf("failed to persist assignment: %w", err)
	}

	s.dispatch(DispatchInput{
		Type:           models.NotificationTaskAssigned,
		Title:          "New task assigned",
		Message:        fmt.Sprintf("You have been assigned: %s", task.Description),
		ProjectID:      task.ProjectID,
		TaskID:         task.ID,
		TargetWorkerID: &worker.ID,
		Priority:       models.PriorityHigh,
	})

	return task, nil
}

// ApplyWorkerAction executes a worker-initiated lifecycle action
// (accept, reject, start, complete).
func (s *LifecycleService) ApplyWorkerAction(projectID, taskID, workerID uint64, action models.TaskAction, reason string) (*models.Task, error) {
	if workerID == 0 {
		return nil, ErrWorkerRequired
	}
	if _, ok := models.ActionTarget(action); !ok || action == models.ActionAssign {
		return nil, ErrUnknownAction
	}

	key := taskKey(taskID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.FindByID(workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if !models.CanApply(action, task.Status) {
		return nil, &TransitionError{TaskID: task.ID, Current: task.Status, Action: action}
	}
	if task.AssignedTo == nil || *task.AssignedTo != workerID {
		return nil, ErrNotAssignee
	}

	detail := ""
	switch action {
	case models.ActionAccept:
		task.Status = models.TaskStatusAccepted
	case models.ActionReject:
		if reason == "" {
			reason = DefaultRejectionReason
		}
		task.Status = models.TaskStatusRejected
		task.RejectionReason = reason
		task.AssignedTo = nil
		detail = fmt.Sprintf("Rejected: %s", reason)
	case models.ActionStart:
		task.Status = models.TaskStatusInProgress
	case models.ActionComplete:
		now := time.Now()
		task.Status = models.TaskStatusCompleted
		task.CompletedDate = &now
	}

	past := pastTense(action)
	if detail == "" {
		detail = fmt.Sprintf("Task %s by worker", past)
	}
	entry := newActivityEntry(task.ID, past, worker.Name, detail)

	if err := s.projects.UpdateTaskWithActivity(task, entry); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", action, err)
	}

	// Admin-facing notification; target_worker_id nil means the admin feed.
	// Rejections are additionally suppressed from the worker's own feed by
	// the dispatcher's visibility filter.
	s.dispatch(DispatchInput{
		Type:      notificationTypeFor(action),
		Title:     fmt.Sprintf("Task %s", past),
		Message:   fmt.Sprintf("%s %s task: %s", worker.Name, past, task.Description),
		ProjectID: task.ProjectID,
		TaskID:    task.ID,
		Priority:  priorityFor(action),
	})

	return task, nil
}

// ListForWorker returns the tasks currently assigned to a worker.
func (s *LifecycleService) ListForWorker(workerID uint64) ([]models.Task, error) {
	if workerID == 0 {
		return nil, ErrWorkerRequired
	}
	tasks, err := s.projects.ListTasks(repository.TaskFilter{AssignedTo: &workerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list worker tasks: %w", err)
	}
	return tasks, nil
}

func (s *LifecycleService) findTask(projectID, taskID uint64) (*models.Task, error) {
	task, err := s.projects.FindTask(projectID, taskID, "Activity")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// dispatch sends a notification, logging failures instead of rolling back
// the transition that triggered it.
func (s *LifecycleService) dispatch(input DispatchInput) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Dispatch(input); err != nil {
		logging.WithTask(input.ProjectID, input.TaskID).Error("notification dispatch failed",
			"type", input.Type,
			"error", err,
		)
	}
}

func newActivityEntry(taskID uint64, action, actor, details string) *models.ActivityEntry {
	return &models.ActivityEntry{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Timestamp: time.Now(),
		Action:    action,
		Actor:     actor,
		Details:   details,
	}
}

func pastTense(action models.TaskAction) string {
	switch action {
	case models.ActionAccept:
		return "accepted"
	case models.ActionReject:
		return "rejected"
	case models.ActionStart:
		return "started"
	case models.ActionComplete:
		return "completed"
	case models.ActionAssign:
		return "assigned"
	}
	return string(action)
}

func notificationTypeFor(action models.TaskAction) models.NotificationType {
	switch action {
	case models.ActionAccept:
		return models.NotificationTaskAccepted
	case models.ActionReject:
		return models.NotificationTaskRejected
	case models.ActionStart:
		return models.NotificationTaskStarted
	default:
		return models.NotificationTaskCompleted
	}
}

func priorityFor(action models.TaskAction) models.NotificationPriority {
	switch action {
	case models.ActionReject:
		return models.PriorityHigh
	case models.ActionComplete:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
