package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/buildcrew/crew-management-api/internal/constants"
	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/buildcrew/crew-management-api/internal/repository"
	"github.com/buildcrew/crew-management-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidPIN         = errors.New("invalid PIN")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWorkerInactive     = errors.New("worker account is inactive")
)

// AuthService handles worker PIN login and admin password login.
type AuthService struct {
	workers repository.WorkerRepository
	admins  repository.AdminRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(workers repository.WorkerRepository, admins repository.AdminRepository) *AuthService {
	return &AuthService{
		workers: workers,
		admins:  admins,
	}
}

// WorkerLogin looks up a worker by their 4-digit PIN.
func (s *AuthService) WorkerLogin(pin string) (*models.Worker, error) {
	if !utils.ValidPIN(pin) {
		return nil, ErrInvalidPIN
	}

	worker, err := s.workers.FindByPIN(pin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPIN
		}
		return nil, fmt.Errorf("failed to look up PIN: %w", err)
	}

	if worker.Status != models.WorkerStatusActive {
		return nil, ErrWorkerInactive
	}

	return worker, nil
}

// AdminLogin verifies an admin username/password pair.
func (s *AuthService) AdminLogin(username, password string) (*models.AdminUser, error) {
	admin, err := s.admins.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// EnsureAdmin creates the bootstrap admin account from configuration when it
// does not exist yet. A blank password skips bootstrapping.
func (s *AuthService) EnsureAdmin(username, password string) error {
	if password == "" {
		return nil
	}

	if _, err := s.admins.FindByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	if len(password) < constants.MinPasswordLength {
		slog.Warn("bootstrap admin password is shorter than recommended",
			"min_length", constants.MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.Info("bootstrap admin account created", "username", username)
	return nil
}
