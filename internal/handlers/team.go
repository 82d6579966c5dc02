package handlers

import (
	"net/http"

	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/collabridge/collabridge-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam creates a team with the caller as creator and member
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTeamRequest struct {
		Name    string   `json:"name"`
		Members []uint64 `json:"members"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		Name:      req.Name,
		Members:   req.Members,
		CreatorID: userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Team created successfully", dto.ToTeamDTO(*team))
}

// ListTeams returns the caller's teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	teams, _, err := h.teamService.ListTeams(c.Request.Context(), userID, utils.GetPaginationParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Teams fetched successfully", dto.ToTeamDTOs(teams))
}

// GetTeam returns a single team
func (h *TeamHandler) GetTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), middleware.GetIDParam(c, "id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Team fetched successfully", dto.ToTeamDTO(*team))
}

// UpdateTeam renames a team or replaces its members
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateTeamRequest struct {
		Name    *string   `json:"name"`
		Members *[]uint64 `json:"members"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdateTeamInput{
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Team updated successfully", dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Team deleted successfully", nil)
}
