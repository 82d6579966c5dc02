package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	TeamID      uint64    `gorm:"not null;index" json:"team_id"`
	CreatedByID uint64    `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Team      Team            `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	CreatedBy User            `gorm:"foreignKey:CreatedByID" json:"-"`
	Members   []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

// HasMember reports whether userID is one of the project's extra members.
func (p *Project) HasMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
