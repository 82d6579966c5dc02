package repository

import (
	"context"

	"github.com/collabridge/collabridge-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create inserts a comment and bumps the task's comments_count
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).
			Where("id = ?", comment.TaskID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
}

// FindByID finds a comment by ID with its author
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask returns comments newest first
func (r *GormCommentRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment and decrements the task's comments_count.
// A comment already removed by a concurrent request yields gorm.ErrRecordNotFound
// and leaves the counter alone.
func (r *GormCommentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Comment{}, comment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Task{}).
			Where("id = ? AND comments_count > 0", comment.TaskID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error
	})
}
