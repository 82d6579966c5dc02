package repository

import (
	"context"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by normalized username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)

	// List returns users ordered by username
	List(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error)

	// Update saves a user
	Update(ctx context.Context, user *models.User) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a team and its member rows atomically
	Create(ctx context.Context, team *models.Team, memberIDs []uint64) error

	// FindByID finds a team by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Team, error)

	// ListForUser lists teams the user created or belongs to
	ListForUser(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Team, int64, error)

	// Update saves the team; a non-nil memberIDs replaces the member set
	Update(ctx context.Context, team *models.Team, memberIDs []uint64) error

	// Delete hard-deletes a team and its member rows
	Delete(ctx context.Context, id uint64) error

	// IsMember reports whether the user is in the team's member set
	IsMember(ctx context.Context, teamID, userID uint64) (bool, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its extra member rows atomically
	Create(ctx context.Context, project *models.Project, memberIDs []uint64) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// ListForUser lists projects the user created, is a member of, or reaches through the team
	ListForUser(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Project, int64, error)

	// Update saves the project; a non-nil memberIDs replaces the extra member set
	Update(ctx context.Context, project *models.Project, memberIDs []uint64) error

	// Delete hard-deletes a project and its member rows
	Delete(ctx context.Context, id uint64) error

	// IsMember reports whether the user is one of the project's extra members
	IsMember(ctx context.Context, projectID, userID uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its assignments atomically
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindByIDs loads the given tasks with their assignments
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Task, error)

	// ListForUser lists tasks visible to the user
	ListForUser(ctx context.Context, userID uint64, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves the task; a non-nil assigneeIDs replaces the assignee set
	Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// UpdateOrders writes the given sort orders in one transaction
	UpdateOrders(ctx context.Context, orders map[uint64]int) error

	// Delete hard-deletes a task and its assignments
	Delete(ctx context.Context, id uint64) error

	// RecountComments resets every task's comments_count to the live comment count
	RecountComments(ctx context.Context) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID *uint64
	Status    *models.TaskStatus
	Page      utils.PaginationParams
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create inserts the comment and increments the task counter in one transaction
	Create(ctx context.Context, comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)

	// ListByTask returns the task's comments newest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.Comment, error)

	// Delete removes the comment and decrements the task counter in one transaction
	Delete(ctx context.Context, comment *models.Comment) error
}
