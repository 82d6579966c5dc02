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

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a project under a team
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Team        uint64   `json:"team"`
		Members     []uint64 `json:"members"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
		Members:     req.Members,
		CreatorID:   userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Project created successfully", dto.ToProjectDTO(*project))
}

// ListProjects returns projects visible to the caller
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, _, err := h.projectService.ListProjects(c.Request.Context(), userID, utils.GetPaginationParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Projects fetched successfully", dto.ToProjectDTOs(projects))
}

// GetProject returns a single project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), middleware.GetIDParam(c, "id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project fetched successfully", dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Team        *uint64   `json:"team"`
		Members     *[]uint64 `json:"members"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
		Members:     req.Members,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project updated successfully", dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Project deleted successfully", nil)
}
