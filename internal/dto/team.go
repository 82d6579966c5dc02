package dto

import (
	"time"

	"github.com/collabridge/collabridge-api/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Members   []UserDTO `json:"members"`
	CreatedBy uint64    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToTeamDTO converts a team with preloaded Members.User
func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]UserDTO, len(team.Members))
	for i, m := range team.Members {
		members[i] = ToUserDTO(m.User)
	}

	return TeamDTO{
		ID:        team.ID,
		Name:      team.Name,
		Members:   members,
		CreatedBy: team.CreatedByID,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}

func ToTeamDTOs(teams []models.Team) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, t := range teams {
		out[i] = ToTeamDTO(t)
	}
	return out
}
