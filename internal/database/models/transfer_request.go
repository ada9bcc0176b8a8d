package models

import (
	"time"

	"github.com/google/uuid"
)

// TransferRequest is a request by a user to move between teams. A nil
// FromTeamID means the requester has no current team. Approval removes any
// membership in the old team and creates one in the new team as one unit.
type TransferRequest struct {
	BaseModel
	RequesterUserID uuid.UUID     `json:"requester_user_id" gorm:"type:uuid;not null;index" validate:"required"`
	FromTeamID      *uuid.UUID    `json:"from_team_id,omitempty" gorm:"type:uuid;index"`
	ToTeamID        uuid.UUID     `json:"to_team_id" gorm:"type:uuid;not null;index" validate:"required"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Message         string        `json:"message" gorm:"size:500" validate:"max=500"`
	ReviewedBy      *uuid.UUID    `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`

	// Relationships
	Requester User  `json:"requester,omitempty" gorm:"foreignKey:RequesterUserID"`
	FromTeam  *Team `json:"from_team,omitempty" gorm:"foreignKey:FromTeamID"`
	ToTeam    Team  `json:"to_team,omitempty" gorm:"foreignKey:ToTeamID"`
	Reviewer  *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

// TableName returns the table name for TransferRequest
func (TransferRequest) TableName() string {
	return "transfer_requests"
}
