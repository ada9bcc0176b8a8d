package models

import (
	"github.com/google/uuid"
)

// Notification is an append-only record delivered to the original requester
// of a reviewed request. Immutable after creation except for the read flag.
type Notification struct {
	BaseModel
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title     string           `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Message   string           `json:"message" gorm:"not null;size:1000" validate:"required,max=1000"`
	Type      NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	RelatedID uuid.UUID        `json:"related_id" gorm:"type:uuid;not null;index"`
	Read      bool             `json:"read" gorm:"not null;default:false;index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
