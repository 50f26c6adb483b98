package models

import (
	"time"

	"github.com/google/uuid"
)

// Seniority levels used as a coarse authorization tier.
const (
	LevelJunior = "Junior"
	LevelMid    = "Mid-level"
	LevelSenior = "Senior"
	LevelCEO    = "CEO"
)

const (
	UserTypeEmployee     = "Employee"
	UserTypeOrganization = "Organization"
)

const (
	AvailabilityAvailable    = "Available"
	AvailabilityNotAvailable = "Not Available"
)

// Employee approval states within an organization.
const (
	EmployeeStatusPending  = "pending"
	EmployeeStatusApproved = "approved"
	EmployeeStatusRejected = "rejected"
)

// Availability is embedded in User. Reason and NextAvailability are both
// required when Status is "Not Available".
type Availability struct {
	Status           string     `gorm:"column:availability_status" json:"status,omitempty"`
	Reason           string     `gorm:"column:availability_reason" json:"reason,omitempty"`
	NextAvailability *time.Time `gorm:"column:availability_next" json:"nextAvailability,omitempty"`
}

type User struct {
	Base
	Name             string       `gorm:"not null" json:"name"`
	Email            string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string       `gorm:"not null" json:"-"`
	Level            string       `json:"level,omitempty"` // Junior, Mid-level, Senior, CEO
	YearsOfWork      int          `json:"yearsOfWork"`
	Availability     Availability `gorm:"embedded" json:"availability"`
	UserType         string       `gorm:"not null;index" json:"userType"` // Employee, Organization
	OrganizationName string       `json:"organizationName,omitempty"`
	Status           string       `gorm:"default:'pending'" json:"status,omitempty"`
	OrganizationID   *uuid.UUID   `gorm:"type:uuid;index" json:"organization,omitempty"`

	ResetPasswordTokenHash string     `gorm:"index" json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func ValidLevel(level string) bool {
	switch level {
	case LevelJunior, LevelMid, LevelSenior, LevelCEO:
		return true
	}
	return false
}

func ValidUserType(userType string) bool {
	return userType == UserTypeEmployee || userType == UserTypeOrganization
}
