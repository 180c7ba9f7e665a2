package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Project struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Number        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	ClientName    string         `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientAddress string         `gorm:"type:varchar(255)" json:"client_address"`
	Status        ProjectStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ColorTag      string         `gorm:"type:varchar(20)" json:"color_tag"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
