package models

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeRequest is a general administrative request (time off, equipment,
// support and so on). Review changes status only; there is no membership side
// effect. TeamID is captured from the requester's roster at creation time so
// the reviewing boundary stays stable even if the requester later moves teams.
type EmployeeRequest struct {
	BaseModel
	RequesterUserID uuid.UUID           `json:"requester_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	TeamID          uuid.UUID           `json:"team_id" gorm:"type:uuid;not null;index" validate:"required"`
	Type            EmployeeRequestType `json:"type" gorm:"type:varchar(20);not null" validate:"required"`
	Title           string              `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description     string              `json:"description" gorm:"size:2000" validate:"max=2000"`
	Priority        RequestPriority     `json:"priority" gorm:"type:varchar(20);not null;default:'normal'"`
	Status          RequestStatus       `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Message         string              `json:"message" gorm:"size:500" validate:"max=500"`
	ManagerResponse *string             `json:"manager_response,omitempty" gorm:"size:500"`
	ReviewedBy      *uuid.UUID          `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt      *time.Time          `json:"reviewed_at,omitempty"`

	// Relationships
	Requester User  `json:"requester,omitempty" gorm:"foreignKey:RequesterUserID"`
	Team      Team  `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Reviewer  *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

// TableName returns the table name for EmployeeRequest
func (EmployeeRequest) TableName() string {
	return "employee_requests"
}
