package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the comment author can delete this comment")
)

// CommentService handles task discussion threads
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	access      accessResolver
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		access:      accessResolver{teamRepo: teamRepo, projectRepo: projectRepo},
	}
}

// CreateComment adds a comment to a task the author can read
func (s *CommentService) CreateComment(ctx context.Context, taskID, authorID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "Comment cannot be empty")
	}

	if _, err := s.readableTask(ctx, taskID, authorID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: authorID,
		TaskID:   taskID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return created, nil
}

// ListComments returns the task's comments newest first
func (s *CommentService) ListComments(ctx context.Context, taskID, userID uint64) ([]models.Comment, error) {
	if _, err := s.readableTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment written by the user
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint64) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.AuthorID != userID {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, comment); err != nil {
		// Lost a race with another delete of the same comment.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) readableTask(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	ok, err := s.access.canReadTask(ctx, task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoTaskAccess
	}
	return task, nil
}
