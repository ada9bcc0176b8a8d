package models

import (
	"github.com/google/uuid"
)

// TeamMembership is a row in a team's roster. A user may hold at most one
// membership per team, enforced by the composite unique index.
type TeamMembership struct {
	BaseModel
	TeamID uuid.UUID      `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_team_user" validate:"required"`
	UserID uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_team_user" validate:"required"`
	Role   MembershipRole `json:"role" gorm:"type:varchar(20);not null;default:'member'" validate:"required"`

	// Relationships
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for TeamMembership
func (TeamMembership) TableName() string {
	return "team_memberships"
}
