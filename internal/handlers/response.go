package handlers

import (
	"errors"

	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.Envelope{Message: message, Data: data})
}

// currentUserID returns the authenticated user, answering 401 when absent.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// respondServiceError maps service errors onto the error envelope.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var cooldownErr *services.UsernameCooldownError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequest(c, validationErr.Message)

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")

	case errors.As(err, &cooldownErr):
		apierrors.Forbidden(c, cooldownErr.Error())
	case errors.Is(err, services.ErrUsernameUnchanged):
		apierrors.BadRequest(c, "This is already your current username")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already taken")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already registered")

	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, "Team not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")

	case errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrNoProjectAccess),
		errors.Is(err, services.ErrNoTaskAccess):
		apierrors.Forbidden(c, "Access denied")
	case errors.Is(err, services.ErrNotTeamCreator):
		apierrors.Forbidden(c, "Forbidden: Only the team creator can do this")
	case errors.Is(err, services.ErrNotProjectCreator):
		apierrors.Forbidden(c, "Forbidden: Not your project")
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, "Forbidden: Not your task")
	case errors.Is(err, services.ErrAssigneeStatusOnly):
		apierrors.Forbidden(c, "Assignees can only update the task status")
	case errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, "Forbidden: Not your comment")

	default:
		apierrors.InternalError(c, err)
	}
}
