package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrWorkerNameRequired = errors.New("worker name is required")
	ErrPINTaken           = errors.New("PIN is already in use")
	ErrPINFormat          = errors.New("PIN must be exactly 4 digits")
)

// maxPINAttempts bounds random PIN generation when the caller leaves the PIN
// blank. The 10000-value space makes exhaustion implausible for realistic
// crew sizes.
const maxPINAttempts = 50

// WorkerService handles worker CRUD, enforcing PIN uniqueness at assignment
// time.
type WorkerService struct {
	workers repository.WorkerRepository
}

// NewWorkerService creates a new WorkerService
func NewWorkerService(workers repository.WorkerRepository) *WorkerService {
	return &WorkerService{workers: workers}
}

// WorkerInput represents input for creating or updating a worker.
type WorkerInput struct {
	Name   string
	Phone  string
	Email  string
	Role   string
	Status models.WorkerStatus
	Skills string
	PIN    string
}

// CreateWorker creates a worker. An empty PIN is generated; a supplied PIN
// is validated and checked for collision.
func (s *WorkerService) CreateWorker(input WorkerInput) (*models.Worker, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrWorkerNameRequired
	}

	pin, err := s.resolvePIN(input.PIN, 0)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.WorkerStatusActive
	}

	worker := &models.Worker{
		Name:   name,
		Phone:  input.Phone,
		Email:  input.Email,
		Role:   input.Role,
		Status: status,
		Skills: input.Skills,
		PIN:    pin,
	}

	if err := s.workers.Create(worker); err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return worker, nil
}

// UpdateWorker updates a worker in place. A changed PIN is re-checked for
// collision against everyone else.
func (s *WorkerService) UpdateWorker(id uint64, input WorkerInput) (*models.Worker, error) {
	worker, err := s.GetWorker(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		worker.Name = name
	}
	worker.Phone = input.Phone
	worker.Email = input.Email
	worker.Role = input.Role
	worker.Skills = input.Skills
	if input.Status != "" {
		worker.Status = input.Status
	}

	if input.PIN != "" && input.PIN != worker.PIN {
		pin, err := s.resolvePIN(input.PIN, id)
		if err != nil {
			return nil, err
		}
		worker.PIN = pin
	}

	if err := s.workers.Update(worker); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	return worker, nil
}

// GetWorker finds a worker by id.
func (s *WorkerService) GetWorker(id uint64) (*models.Worker, error) {
	worker, err := s.workers.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}
	return worker, nil
}

// ListWorkers returns all workers.
func (s *WorkerService) ListWorkers() ([]models.Worker, error) {
	workers, err := s.workers.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// DeleteWorker removes a worker.
func (s *WorkerService) DeleteWorker(id uint64) error {
	if _, err := s.GetWorker(id); err != nil {
		return err
	}
	if err := s.workers.Delete(id); err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}
	return nil
}

func (s *WorkerService) resolvePIN(pin string, excludeID uint64) (string, error) {
	if pin != "" {
		if !utils.ValidPIN(pin) {
			return "", ErrPINFormat
		}
		taken, err := s.workers.PINInUse(pin, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check PIN: %w", err)
		}
		if taken {
			return "", ErrPINTaken
		}
		return pin, nil
	}

	for i := 0; i < maxPINAttempts; i++ {
		candidate, err := utils.GeneratePIN()
		if err != nil {
			return "", err
		}
		taken, err := s.workers.PINInUse(candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check PIN: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", errors.New("could not find a free PIN")
}
