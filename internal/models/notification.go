package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTaskAssigned    NotificationType = "task_assigned"
	NotificationTaskAccepted    NotificationType = "task_accepted"
	NotificationTaskRejected    NotificationType = "task_rejected"
	NotificationTaskStarted     NotificationType = "task_started"
	NotificationTaskCompleted   NotificationType = "task_completed"
	NotificationMessageReceived NotificationType = "message_received"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID             uint64               `gorm:"primarykey" json:"id"`
	Type           NotificationType     `gorm:"type:varchar(30);not null" json:"type"`
	Title          string               `gorm:"type:varchar(255);not null" json:"title"`
	Message        string               `gorm:"type:text" json:"message"`
	ProjectID      uint64               `gorm:"not null;index" json:"project_id"`
	TaskID         uint64               `gorm:"not null;index" json:"task_id"`
	TargetWorkerID *uint64              `gorm:"index" json:"target_worker_id"`
	Timestamp      time.Time            `gorm:"not null;index" json:"timestamp"`
	Read           bool                 `gorm:"not null;default:false" json:"read"`
	Priority       NotificationPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`
}
