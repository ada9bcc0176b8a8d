package models

import (
	"github.com/google/uuid"
)

// Team represents a team in the operations portal
type Team struct {
	BaseModel
	Name        string     `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Description string     `json:"description" gorm:"size:500" validate:"max=500"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty" gorm:"type:uuid;index"`

	// Relationships
	Manager     *User            `json:"manager,omitempty" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	Memberships []TeamMembership `json:"memberships,omitempty" gorm:"foreignKey:TeamID"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}
