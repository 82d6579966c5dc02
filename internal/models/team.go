package models

import "time"

type Team struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	CreatedBy User         `gorm:"foreignKey:CreatedByID" json:"-"`
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// HasMember reports whether userID is in the team's member set.
func (t *Team) HasMember(userID uint64) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
