package models

import "time"

const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Collaboration links a user to a project with a role. The same user may
// hold several rows for one project.
type Collaboration struct {
	BaseModel

	ProjectID uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	Role      string    `gorm:"size:20;not null"`
	JoinedAt  time.Time `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID"`
	Project Project `gorm:"foreignKey:ProjectID"`
}
