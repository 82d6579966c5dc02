package dto

import (
	"time"

	"github.com/collabridge/collabridge-api/internal/models"
)

// TeamRefDTO is the compact team reference embedded in projects
type TeamRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TeamID      uint64      `json:"teamId"`
	Team        *TeamRefDTO `json:"team,omitempty"`
	Members     []UserDTO   `json:"members"`
	CreatedBy   uint64      `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ToProjectDTO converts a project with optional preloaded Team and Members.User
func ToProjectDTO(project models.Project) ProjectDTO {
	members := make([]UserDTO, len(project.Members))
	for i, m := range project.Members {
		members[i] = ToUserDTO(m.User)
	}

	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		TeamID:      project.TeamID,
		Members:     members,
		CreatedBy:   project.CreatedByID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include team if preloaded
	if project.Team.ID != 0 {
		dto.Team = &TeamRefDTO{ID: project.Team.ID, Name: project.Team.Name}
	}

	return dto
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}
