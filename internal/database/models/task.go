package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusNew        = "New"
	TaskStatusInProgress = "InProgress"
	TaskStatusDone       = "Done"
)

const (
	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

type Task struct {
	Base
	Title       string    `gorm:"uniqueIndex;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Status      string    `gorm:"default:'New'" json:"status"`
	Priority    string    `gorm:"default:'Medium'" json:"priority"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;index;not null" json:"createdBy"`
	AssignedTo  UUIDArray `gorm:"type:text" json:"assignedTo"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"project"`
	StartDate   time.Time `json:"startDate"`
	DueDate     time.Time `json:"dueDate"`
}

func (Task) TableName() string {
	return "tasks"
}

func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func ValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
