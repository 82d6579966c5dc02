package handlers

import (
	"net/http"

	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/collabridge/collabridge-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the user directory and profile changes.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns the public identity of every user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, _, err := h.userService.ListUsers(c.Request.Context(), utils.GetPaginationParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Users fetched successfully", dto.ToUserDTOs(users))
}

// UpdateUsername changes the current user's username.
func (h *UserHandler) UpdateUsername(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateUsernameRequest struct {
		Username string `json:"username" binding:"required"`
	}

	var req UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Username is required")
		return
	}

	user, err := h.userService.UpdateUsername(c.Request.Context(), userID, req.Username)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Username updated successfully", dto.UsernameDTO{
		ID:       user.ID,
		Username: user.Username,
	})
}
