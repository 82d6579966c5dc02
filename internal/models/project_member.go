package models

import "time"

type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	UserID    uint64    `gorm:"primarykey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
