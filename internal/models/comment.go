package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	TaskID    uint64    `gorm:"not null;index:idx_comments_task_created" json:"task_id"`
	CreatedAt time.Time `gorm:"index:idx_comments_task_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
