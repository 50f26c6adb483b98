package models

import "github.com/google/uuid"

type Comment struct {
	Base
	Text      string    `gorm:"not null" json:"text"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task"`
	CreatedBy uuid.UUID `gorm:"type:uuid;index;not null" json:"createdBy"`
}

func (Comment) TableName() string {
	return "comments"
}
