package dto

import (
	"time"

	"github.com/collabridge/collabridge-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	Author    UserDTO   `json:"author"`
	Task      uint64    `json:"task"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    ToUserDTO(comment.Author),
		Task:      comment.TaskID,
		CreatedAt: comment.CreatedAt,
	}
}

func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}
