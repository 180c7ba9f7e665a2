package repository

import (
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *GormProjectRepository) List(preload ...string) ([]models.Project, error) {
	var projects []models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Order("projects.created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and cascades to its tasks, their activity logs
// and materials.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.ActivityEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Material{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

func (r *GormProjectRepository) CreateTask(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *GormProjectRepository) FindTask(projectID, taskID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Where("project_id = ?", projectID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormProjectRepository) FindTaskByID(taskID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormProjectRepository) ListTasks(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedOnly {
		query = query.Where("tasks.assigned_to IS NOT NULL")
	}

	if err := query.Preload("Project").Order("tasks.created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *GormProjectRepository) UpdateTaskScheduledDate(taskID uint64, date time.Time) error {
	return r.db.Model(&models.Task{}).Where("id = ?", taskID).
		Update("scheduled_date", date).Error
}

func (r *GormProjectRepository) UpdateTaskWithActivity(task *models.Task, entry *models.ActivityEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *GormProjectRepository) DeleteTask(projectID, taskID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("project_id = ?", projectID).First(&task, taskID).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&models.ActivityEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Material{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, taskID).Error
	})
}
