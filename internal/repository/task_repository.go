package repository

import (
	"context"
	"time"

	"github.com/collabridge/collabridge-api/internal/database"
	"github.com/collabridge/collabridge-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its assignments
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByIDs loads the given tasks with their assignments
func (r *GormTaskRepository) FindByIDs(ctx context.Context, ids []uint64) ([]models.Task, error) {
	var tasks []models.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Assignments.User").
		Where("id IN ?", ids).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForUser lists tasks the user created, is assigned to, or can reach through the project
func (r *GormTaskRepository) ListForUser(ctx context.Context, userID uint64, filter TaskFilter) ([]models.Task, int64, error) {
	db := r.db.WithContext(ctx)

	visible := func() *gorm.DB {
		assignmentSubQuery := db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", userID)

		projectSubQuery := visibleProjects(db, userID).Select("projects.id")

		access := db.Where("tasks.created_by_id = ?", userID).
			Or("EXISTS (?)", assignmentSubQuery).
			Or("tasks.project_id IN (?)", projectSubQuery)

		query := db.Model(&models.Task{}).Where(access)
		if filter.ProjectID != nil {
			query = query.Where("tasks.project_id = ?", *filter.ProjectID)
		}
		if filter.Status != nil {
			query = query.Where("tasks.status = ?", *filter.Status)
		}
		return query
	}

	var total int64
	if err := visible().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := visible().
		Preload("Assignments.User").
		Order("tasks.sort_order ASC, tasks.id ASC").
		Scopes(database.Paginate(filter.Page)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves the task and optionally replaces its assignees. The comment
// counter is owned by the comment repository and never written here.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "CommentsCount").Save(task).Error; err != nil {
			return err
		}
		if assigneeIDs == nil {
			return nil
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// UpdateOrders writes sort orders for a set of tasks atomically
func (r *GormTaskRepository) UpdateOrders(ctx context.Context, orders map[uint64]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, order := range orders {
			if err := tx.Model(&models.Task{}).
				Where("id = ?", id).
				UpdateColumn("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a task and its assignments. Comments are not removed.
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// RecountComments recomputes comments_count from the comments table
func (r *GormTaskRepository) RecountComments(ctx context.Context) (int64, error) {
	live := r.db.Model(&models.Comment{}).
		Select("COUNT(*)").
		Where("comments.task_id = tasks.id")

	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("tasks.comments_count <> (?)", live).
		UpdateColumn("comments_count", live)
	return result.RowsAffected, result.Error
}

func insertAssignments(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:    taskID,
			UserID:    userID,
			CreatedAt: now,
		}
	}
	return tx.Omit(clause.Associations).Create(&assignments).Error
}
