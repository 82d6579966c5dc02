package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrNoProjectAccess   = errors.New("user does not have access to this project")
	ErrNotProjectCreator = errors.New("only the project creator can perform this action")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	access      accessResolver
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		access:      accessResolver{teamRepo: teamRepo, projectRepo: projectRepo},
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	TeamID      uint64
	Members     []uint64
	CreatorID   uint64
}

// UpdateProjectInput represents a partial project update
type UpdateProjectInput struct {
	Name        *string
	Description *string
	TeamID      *uint64
	Members     *[]uint64
}

// CreateProject creates a project under an existing team
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "Project name is required")
	}
	if err := s.ensureTeam(ctx, input.TeamID); err != nil {
		return nil, err
	}

	memberIDs, err := s.resolveMembers(ctx, input.Members)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		TeamID:      input.TeamID,
		CreatedByID: input.CreatorID,
	}
	if err := s.projectRepo.Create(ctx, project, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.reload(ctx, project.ID)
}

// ListProjects returns projects reachable by creator, membership or team
func (s *ProjectService) ListProjects(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListForUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject applies the same access rule as ListProjects
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID uint64) (*models.Project, error) {
	project, err := s.reload(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.canReadProject(ctx, project, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoProjectAccess
	}
	return project, nil
}

// UpdateProject validates and applies only the supplied fields
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, userID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findOwned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "Project name cannot be empty")
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.TeamID != nil {
		if err := s.ensureTeam(ctx, *input.TeamID); err != nil {
			return nil, err
		}
		project.TeamID = *input.TeamID
	}

	var memberIDs []uint64
	if input.Members != nil {
		memberIDs, err = s.resolveMembers(ctx, *input.Members)
		if err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Update(ctx, project, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.reload(ctx, project.ID)
}

// DeleteProject removes the project; its tasks are left untouched
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID uint64) error {
	if _, err := s.findOwned(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) ensureTeam(ctx context.Context, teamID uint64) error {
	if teamID == 0 {
		return invalid("teamId", "A valid team is required")
	}
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	return nil
}

// resolveMembers returns a non-nil slice so an explicit empty list clears the members.
func (s *ProjectService) resolveMembers(ctx context.Context, members []uint64) ([]uint64, error) {
	ids, err := validateReferences("members", members)
	if err != nil {
		return nil, err
	}
	if err := ensureUsersExist(ctx, s.userRepo, "members", ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ProjectService) findOwned(ctx context.Context, projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.CreatedByID != userID {
		return nil, ErrNotProjectCreator
	}
	return project, nil
}

func (s *ProjectService) reload(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID, "Team", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
