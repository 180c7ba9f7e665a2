package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkerStatus string

const (
	WorkerStatusActive   WorkerStatus = "active"
	WorkerStatusInactive WorkerStatus = "inactive"
)

type Worker struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Role      string         `gorm:"type:varchar(100)" json:"role"`
	Status    WorkerStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Skills    string         `gorm:"type:varchar(500)" json:"skills"`
	PIN       string         `gorm:"type:varchar(4);uniqueIndex;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
