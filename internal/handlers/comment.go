package handlers

import (
	"net/http"

	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CommentHandler handles task comment endpoints
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment adds a comment to a task
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Comment added successfully", dto.ToCommentDTO(*comment))
}

// ListComments returns a task's comments newest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), middleware.GetIDParam(c, "id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comments fetched successfully", dto.ToCommentDTOs(comments))
}

// DeleteComment deletes the caller's own comment
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Comment deleted successfully", nil)
}
