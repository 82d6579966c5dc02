package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"gorm.io/gorm"
)

// accessResolver answers read-access questions that span teams, projects and tasks.
type accessResolver struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
}

// canReadProject grants the creator, extra members and members of the owning team.
func (a accessResolver) canReadProject(ctx context.Context, project *models.Project, userID uint64) (bool, error) {
	if project.CreatedByID == userID {
		return true, nil
	}

	isMember, err := a.projectRepo.IsMember(ctx, project.ID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	if isMember {
		return true, nil
	}

	isTeamMember, err := a.teamRepo.IsMember(ctx, project.TeamID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return isTeamMember, nil
}

// canReadTask checks creator, assignee, project and then team, in that order.
// Task assignments must be loaded.
func (a accessResolver) canReadTask(ctx context.Context, task *models.Task, userID uint64) (bool, error) {
	if task.CreatedByID == userID || task.IsAssignee(userID) {
		return true, nil
	}

	project, err := a.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}
	return a.canReadProject(ctx, project, userID)
}

// ensureUsersExist rejects reference lists naming users that do not exist.
func ensureUsersExist(ctx context.Context, userRepo repository.UserRepository, field string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := userRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if count != int64(len(ids)) {
		return invalid(field, fmt.Sprintf("Invalid %s list", field))
	}
	return nil
}
