package models

import (
	"time"

	"gorm.io/gorm"
)

// SenderAdmin is the literal sender identity used for office-side messages.
// Worker messages use the decimal worker id as the sender string.
const SenderAdmin = "admin"

// MessageThread is the single conversation tied to one (project, task) pair.
type MessageThread struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID uint64         `gorm:"not null;uniqueIndex:idx_threads_project_task" json:"project_id"`
	TaskID    uint64         `gorm:"not null;uniqueIndex:idx_threads_project_task" json:"task_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Messages []Message `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

type Message struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	ThreadID  uint64    `gorm:"not null;index" json:"thread_id"`
	Sender    string    `gorm:"type:varchar(100);not null" json:"sender"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
}
