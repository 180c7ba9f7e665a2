package repository

import (
	"github.com/buildcrew/crew-management-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) FindThread(projectID, taskID uint64) (*models.MessageThread, error) {
	var thread models.MessageThread
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.timestamp ASC")
		}).
		Where("project_id = ? AND task_id = ?", projectID, taskID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *GormMessageRepository) FindOrCreateThread(projectID, taskID uint64) (*models.MessageThread, error) {
	var thread models.MessageThread
	err := r.db.
		Where("project_id = ? AND task_id = ?", projectID, taskID).
		FirstOrCreate(&thread, models.MessageThread{ProjectID: projectID, TaskID: taskID}).
		Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *GormMessageRepository) ListThreads() ([]models.MessageThread, error) {
	var threads []models.MessageThread
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.timestamp ASC")
		}).
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *GormMessageRepository) AppendMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *GormMessageRepository) MarkMessagesRead(threadID uint64, excludeSender string) error {
	// "read" is a reserved word in MySQL; the map form lets GORM quote it
	// per dialect.
	return r.db.Model(&models.Message{}).
		Where("thread_id = ? AND sender <> ?", threadID, excludeSender).
		Where(map[string]interface{}{"read": false}).
		Update("read", true).Error
}
