package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusUnassigned        TaskStatus = "unassigned"
	TaskStatusPendingAcceptance TaskStatus = "pending_acceptance"
	// TaskStatusAccepted is the canonical token for the post-accept state.
	// Some admin UIs label it "confirmed"; that is presentation only and the
	// stored value is always "accepted".
	TaskStatusAccepted   TaskStatus = "accepted"
	TaskStatusRejected   TaskStatus = "rejected"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is a known task status. Unknown values
// are rejected at the boundary rather than defaulted.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusUnassigned, TaskStatusPendingAcceptance, TaskStatusAccepted,
		TaskStatusRejected, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskAction string

const (
	ActionAssign   TaskAction = "assign"
	ActionAccept   TaskAction = "accept"
	ActionReject   TaskAction = "reject"
	ActionStart    TaskAction = "start"
	ActionComplete TaskAction = "complete"
)

// validActionSources maps each lifecycle action to the statuses it may be
// applied from. completed is terminal; rejected unblocks only via re-assign.
var validActionSources = map[TaskAction]map[TaskStatus]bool{
	ActionAssign: {
		TaskStatusUnassigned: true,
		TaskStatusRejected:   true,
	},
	ActionAccept: {
		TaskStatusPendingAcceptance: true,
	},
	ActionReject: {
		TaskStatusPendingAcceptance: true,
	},
	ActionStart: {
		TaskStatusAccepted: true,
	},
	ActionComplete: {
		TaskStatusInProgress: true,
	},
}

// actionTargets maps each lifecycle action to its resulting status.
var actionTargets = map[TaskAction]TaskStatus{
	ActionAssign:   TaskStatusPendingAcceptance,
	ActionAccept:   TaskStatusAccepted,
	ActionReject:   TaskStatusRejected,
	ActionStart:    TaskStatusInProgress,
	ActionComplete: TaskStatusCompleted,
}

// CanApply reports whether action is legal from the given status.
func CanApply(action TaskAction, from TaskStatus) bool {
	return validActionSources[action][from]
}

// ActionTarget returns the status an action transitions into.
func ActionTarget(action TaskAction) (TaskStatus, bool) {
	target, ok := actionTargets[action]
	return target, ok
}

// IsTerminal reports whether no worker-initiated action can move the task.
func IsTerminal(s TaskStatus) bool {
	return s == TaskStatusCompleted
}

type TaskType string

const (
	TaskTypeHVAC       TaskType = "hvac"
	TaskTypeElectrical TaskType = "electrical"
	TaskTypePlumbing   TaskType = "plumbing"
	TaskTypeCarpentry  TaskType = "carpentry"
	TaskTypeRoofing    TaskType = "roofing"
	TaskTypePainting   TaskType = "painting"
	TaskTypeFlooring   TaskType = "flooring"
	TaskTypeOther      TaskType = "other"
)

// ValidTaskType reports whether t is a known task category.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeHVAC, TaskTypeElectrical, TaskTypePlumbing, TaskTypeCarpentry,
		TaskTypeRoofing, TaskTypePainting, TaskTypeFlooring, TaskTypeOther:
		return true
	}
	return false
}

type Task struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	ProjectID       uint64         `gorm:"not null;index" json:"project_id"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	Quantity        float64        `gorm:"not null;default:0" json:"quantity"`
	UnitPrice       float64        `gorm:"not null;default:0" json:"unit_price"`
	Amount          float64        `gorm:"not null;default:0" json:"amount"`
	Type            TaskType       `gorm:"type:varchar(20);not null;default:'other'" json:"type"`
	EstimatedHours  float64        `gorm:"not null;default:0" json:"estimated_hours"`
	Status          TaskStatus     `gorm:"type:varchar(30);not null;default:'unassigned'" json:"status"`
	AssignedTo      *uint64        `gorm:"index" json:"assigned_to"`
	ScheduledDate   *time.Time     `gorm:"index" json:"scheduled_date"`
	CompletedDate   *time.Time     `json:"completed_date"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project   Project         `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Activity  []ActivityEntry `gorm:"foreignKey:TaskID" json:"activity,omitempty"`
	Materials []Material      `gorm:"foreignKey:TaskID" json:"materials,omitempty"`
}

// ActivityEntry is one append-only line in a task's activity log.
type ActivityEntry struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Action    string    `gorm:"type:varchar(30);not null" json:"action"`
	Actor     string    `gorm:"type:varchar(100);not null" json:"actor"`
	Details   string    `gorm:"type:text" json:"details"`
}

type Material struct {
	ID            uint64  `gorm:"primarykey" json:"id"`
	TaskID        uint64  `gorm:"not null;index" json:"task_id"`
	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	Quantity      float64 `gorm:"not null;default:0" json:"quantity"`
	Unit          string  `gorm:"type:varchar(20)" json:"unit"`
	EstimatedCost float64 `gorm:"not null;default:0" json:"estimated_cost"`
}
