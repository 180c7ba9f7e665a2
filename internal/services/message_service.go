package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/buildcrew/crew-management-api/internal/dto"
	"github.com/buildcrew/crew-management-api/internal/lock"
	"github.com/buildcrew/crew-management-api/internal/logging"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrThreadNotFound     = errors.New("message thread not found")
	ErrMessageTextEmpty   = errors.New("message text is required")
	ErrMessageSenderEmpty = errors.New("message sender is required")
)

// MessageService groups messages into one thread per (project, task) pair
// and tracks per-participant read state. Appends into the same thread are
// serialized so a message is never split or lost between concurrent writers.
type MessageService struct {
	messages      repository.MessageRepository
	projects      repository.ProjectRepository
	notifications *NotificationService
	locks         *lock.MutexMap
}

// NewMessageService creates a new MessageService
func NewMessageService(messages repository.MessageRepository, projects repository.ProjectRepository, notifications *NotificationService) *MessageService {
	return &MessageService{
		messages:      messages,
		projects:      projects,
		notifications: notifications,
		locks:         lock.NewMutexMap(),
	}
}

// WorkerSender is the sender string stored for a worker's messages.
func WorkerSender(workerID uint64) string {
	return strconv.FormatUint(workerID, 10)
}

// IsOfficeSender reports whether a sender identity belongs to the
// admin/office side. Matched case-insensitively: the literal "admin", or any
// identity containing "office".
func IsOfficeSender(sender string) bool {
	s := strings.ToLower(strings.TrimSpace(sender))
	return s == models.SenderAdmin || strings.Contains(s, "office")
}

// SendMessage appends a message to the (project, task) thread, creating the
// thread when absent, and returns the created message. Office-sent messages
// additionally notify the task's assigned worker.
func (s *MessageService) SendMessage(projectID, taskID uint64, text, sender string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrMessageTextEmpty
	}
	if strings.TrimSpace(sender) == "" {
		return nil, ErrMessageSenderEmpty
	}

	task, err := s.projects.FindTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	key := threadKey(projectID, taskID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	thread, err := s.messages.FindOrCreateThread(projectID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve thread: %w", err)
	}

	message := &models.Message{
		ID:        uuid.NewString(),
		ThreadID:  thread.ID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
		Read:      false,
	}

	if err := s.messages.AppendMessage(message); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	// Notifications model admin->worker pushes only; worker-sent messages
	// never spawn one.
	if IsOfficeSender(sender) && task.AssignedTo != nil {
		_, err := s.notifications.Dispatch(DispatchInput{
			Type:           models.NotificationMessageReceived,
			Title:          "New message",
			Message:        truncate(text, constants.MaxNotificationBodyLen),
			ProjectID:      projectID,
			TaskID:         taskID,
			TargetWorkerID: task.AssignedTo,
			Priority:       models.PriorityMedium,
		})
		if err != nil {
			logging.WithTask(projectID, taskID).Error("message notification dispatch failed", "error", err)
		}
	}

	return message, nil
}

// MarkThreadRead marks every message in the thread not authored by the
// reader as read. The reader's own messages are left untouched.
func (s *MessageService) MarkThreadRead(projectID, taskID uint64, readerID string) error {
	key := threadKey(projectID, taskID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	thread, err := s.messages.FindThread(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThreadNotFound
		}
		return fmt.Errorf("failed to find thread: %w", err)
	}

	if err := s.messages.MarkMessagesRead(thread.ID, readerID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// ListForWorker projects all threads down to those whose task is currently
// assigned to the worker, enriched with project and task display fields.
// Read-only.
func (s *MessageService) ListForWorker(workerID uint64) ([]dto.ThreadDTO, error) {
	if workerID == 0 {
		return nil, ErrWorkerRequired
	}

	tasks, err := s.projects.ListTasks(repository.TaskFilter{AssignedTo: &workerID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assigned tasks: %w", err)
	}

	byTaskID := make(map[uint64]models.Task, len(tasks))
	for _, t := range tasks {
		byTaskID[t.ID] = t
	}

	threads, err := s.messages.ListThreads()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	reader := WorkerSender(workerID)
	views := make([]dto.ThreadDTO, 0, len(threads))
	for _, thread := range threads {
		task, ok := byTaskID[thread.TaskID]
		if !ok {
			continue
		}
		views = append(views, dto.ToThreadDTO(thread, task, reader))
	}

	return views, nil
}

// GetThread returns the thread for a (project, task) pair enriched for the
// given reader, for the admin message center.
func (s *MessageService) GetThread(projectID, taskID uint64, readerID string) (*dto.ThreadDTO, error) {
	task, err := s.projects.FindTask(projectID, taskID, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	thread, err := s.messages.FindThread(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to find thread: %w", err)
	}

	view := dto.ToThreadDTO(*thread, *task, readerID)
	return &view, nil
}

func threadKey(projectID, taskID uint64) string {
	return fmt.Sprintf("thread:%d:%d", projectID, taskID)
}

// truncate shortens text to limit characters, counting runes so a cut never
// lands mid-codepoint.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
