package models

import (
	"time"

	"github.com/google/uuid"
)

// Project tasks are a derived relationship: every Task whose ProjectID equals
// this project's id. They are queried on demand, never stored on the project.
type Project struct {
	Base
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;index;not null" json:"createdBy"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

func (Project) TableName() string {
	return "projects"
}
