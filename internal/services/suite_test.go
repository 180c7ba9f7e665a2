package services

import (
	"fmt"
	"time"

	"github.com/buildcrew/crew-management-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// serviceSuite carries the shared in-memory database fixture for the service
// test suites.
type serviceSuite struct {
	suite.Suite
	db *gorm.DB

	pinCounter int
}

func (s *serviceSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	err = s.db.AutoMigrate(
		&models.AdminUser{},
		&models.Worker{},
		&models.Project{},
		&models.Task{},
		&models.ActivityEntry{},
		&models.Material{},
		&models.MessageThread{},
		&models.Message{},
		&models.Notification{},
	)
	s.Require().NoError(err)

	s.pinCounter = 0
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) createProject(number string) *models.Project {
	project := &models.Project{
		Number:     number,
		ClientName: "Test Client",
		Status:     models.ProjectStatusActive,
		ColorTag:   "blue",
	}
	s.Require().NoError(s.db.Create(project).Error)
	return project
}

func (s *serviceSuite) createWorker(name string) *models.Worker {
	s.pinCounter++
	worker := &models.Worker{
		Name:   name,
		Status: models.WorkerStatusActive,
		PIN:    fmt.Sprintf("%04d", s.pinCounter),
	}
	s.Require().NoError(s.db.Create(worker).Error)
	return worker
}

func (s *serviceSuite) createTask(projectID uint64, description string, hours float64) *models.Task {
	task := &models.Task{
		ProjectID:      projectID,
		Description:    description,
		Quantity:       1,
		UnitPrice:      100,
		Amount:         100,
		Type:           models.TaskTypeOther,
		EstimatedHours: hours,
		Status:         models.TaskStatusUnassigned,
	}
	s.Require().NoError(s.db.Create(task).Error)
	return task
}

func (s *serviceSuite) assignTask(task *models.Task, workerID uint64, status models.TaskStatus, scheduled *time.Time) {
	task.AssignedTo = &workerID
	task.Status = status
	task.ScheduledDate = scheduled
	s.Require().NoError(s.db.Save(task).Error)
}

func (s *serviceSuite) reloadTask(id uint64) *models.Task {
	var task models.Task
	s.Require().NoError(s.db.Preload("Activity", func(db *gorm.DB) *gorm.DB {
		return db.Order("activity_entries.timestamp ASC")
	}).First(&task, id).Error)
	return &task
}

func (s *serviceSuite) activityCount(taskID uint64) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.ActivityEntry{}).Where("task_id = ?", taskID).Count(&count).Error)
	return count
}

func (s *serviceSuite) allNotifications() []models.Notification {
	var notifications []models.Notification
	s.Require().NoError(s.db.Order("id ASC").Find(&notifications).Error)
	return notifications
}
