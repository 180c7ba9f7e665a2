package repository

import (
	"github.com/buildcrew/crew-management-api/internal/database"
	"github.com/buildcrew/crew-management-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// List retrieves notifications matching the filter, most recent first.
func (r *GormNotificationRepository) List(filter NotificationFilter) ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.applyFilter(filter)
	if filter.Pagination != nil {
		query = query.Scopes(database.Paginate(*filter.Pagination))
	}

	if err := query.Order("timestamp DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

// Count counts notifications matching the filter, ignoring pagination.
func (r *GormNotificationRepository) Count(filter NotificationFilter) (int64, error) {
	var count int64
	err := r.applyFilter(filter).Count(&count).Error
	return count, err
}

func (r *GormNotificationRepository) applyFilter(filter NotificationFilter) *gorm.DB {
	query := r.db.Model(&models.Notification{})

	if filter.TargetWorkerID != nil {
		query = query.Where("target_worker_id = ?", *filter.TargetWorkerID)
	}
	if filter.UnreadOnly {
		query = query.Where(map[string]interface{}{"read": false})
	}
	if filter.Since != nil {
		query = query.Where("timestamp > ?", *filter.Since)
	}

	return query
}

func (r *GormNotificationRepository) MarkRead(id uint64) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkReadForWorker marks a notification read only when it targets the given
// worker. A notification that exists but targets someone else is reported the
// same way as a missing one.
func (r *GormNotificationRepository) MarkReadForWorker(id, workerID uint64) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND target_worker_id = ?", id, workerID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormNotificationRepository) MarkManyRead(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("id IN ?", ids).
		Update("read", true).Error
}
