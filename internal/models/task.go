package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID            uint64       `gorm:"primarykey" json:"id"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Status        TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	Priority      TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate       *time.Time   `json:"due_date"`
	ProjectID     uint64       `gorm:"not null;index" json:"project_id"`
	CreatedByID   uint64       `gorm:"not null;index" json:"created_by"`
	Order         int          `gorm:"column:sort_order;not null;default:0" json:"order"`
	CommentsCount int          `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	// Relations
	Project     Project          `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedBy   User             `gorm:"foreignKey:CreatedByID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// IsAssignee reports whether userID is among the task's assignees.
func (t *Task) IsAssignee(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
