package dto

import (
	"time"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"dueDate"`
	Project       uint64              `json:"project"`
	AssignedTo    []UserDTO           `json:"assignedTo"`
	CreatedBy     uint64              `json:"createdBy"`
	Order         int                 `json:"order"`
	CommentsCount int                 `json:"commentsCount"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// TaskListResponse is the data of GET /tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                 `json:"tasks"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToTaskDTO converts a Task model with preloaded Assignments.User to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	assignees := make([]UserDTO, len(task.Assignments))
	for i, a := range task.Assignments {
		assignees[i] = ToUserDTO(a.User)
	}

	return TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		DueDate:       task.DueDate,
		Project:       task.ProjectID,
		AssignedTo:    assignees,
		CreatedBy:     task.CreatedByID,
		Order:         task.Order,
		CommentsCount: task.CommentsCount,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
