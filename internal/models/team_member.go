package models

import "time"

type TeamMember struct {
	TeamID   uint64    `gorm:"primarykey" json:"team_id"`
	UserID   uint64    `gorm:"primarykey;index" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
