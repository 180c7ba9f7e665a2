package repository

import (
	"github.com/buildcrew/crew-management-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkerRepository is a GORM implementation of WorkerRepository
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new WorkerRepository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &GormWorkerRepository{db: db}
}

func (r *GormWorkerRepository) Create(worker *models.Worker) error {
	return r.db.Create(worker).Error
}

func (r *GormWorkerRepository) FindByID(id uint64) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *GormWorkerRepository) FindByPIN(pin string) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.Where("pin = ?", pin).First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *GormWorkerRepository) PINInUse(pin string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.Worker{}).Where("pin = ?", pin)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormWorkerRepository) List() ([]models.Worker, error) {
	var workers []models.Worker
	if err := r.db.Order("workers.name ASC").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *GormWorkerRepository) Update(worker *models.Worker) error {
	return r.db.Save(worker).Error
}

func (r *GormWorkerRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Worker{}, id).Error
}

// GormAdminRepository is a GORM implementation of AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) Create(admin *models.AdminUser) error {
	return r.db.Create(admin).Error
}

func (r *GormAdminRepository) FindByUsername(username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
