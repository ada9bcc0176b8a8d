package models

// User represents an authenticated principal of the portal
type User struct {
	BaseModel
	FullName string `json:"full_name" gorm:"not null;size:200" validate:"required,max=200"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Memberships   []TeamMembership `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification   `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
