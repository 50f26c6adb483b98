package models

type Organization struct {
	Base
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	OrganizationName  string    `gorm:"not null" json:"organizationName"`
	IndustryType      string    `json:"industryType,omitempty"`
	TaxID             string    `json:"taxId,omitempty"`
	NumberOfEmployees int       `json:"numberOfEmployees,omitempty"`
	Employees         UUIDArray `gorm:"type:text" json:"employees"`
}

func (Organization) TableName() string {
	return "organizations"
}
