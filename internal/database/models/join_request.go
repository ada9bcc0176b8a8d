package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequest is a request by a user to join a team. Approval creates exactly
// one membership with role member for the requester in the target team.
type JoinRequest struct {
	BaseModel
	RequesterUserID uuid.UUID     `json:"requester_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	TeamID          uuid.UUID     `json:"team_id" gorm:"type:uuid;not null;index" validate:"required"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Message         string        `json:"message" gorm:"size:500" validate:"max=500"`
	ReviewedBy      *uuid.UUID    `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`

	// Relationships
	Requester User  `json:"requester,omitempty" gorm:"foreignKey:RequesterUserID"`
	Team      Team  `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Reviewer  *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

// TableName returns the table name for JoinRequest
func (JoinRequest) TableName() string {
	return "join_requests"
}
