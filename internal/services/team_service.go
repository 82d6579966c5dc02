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
	ErrTeamNotFound   = errors.New("team not found")
	ErrNotTeamMember  = errors.New("user is not a member of the team")
	ErrNotTeamCreator = errors.New("only the team creator can perform this action")
)

// TeamService handles team business logic
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name      string
	Members   []uint64
	CreatorID uint64
}

// UpdateTeamInput represents a partial team update
type UpdateTeamInput struct {
	Name    *string
	Members *[]uint64
}

// CreateTeam creates a team whose member set always contains the creator
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "Team name is required")
	}

	memberIDs, err := s.resolveMembers(ctx, input.CreatorID, input.Members)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:        name,
		CreatedByID: input.CreatorID,
	}
	if err := s.teamRepo.Create(ctx, team, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.reload(ctx, team.ID)
}

// ListTeams returns the teams the user created or belongs to
func (s *TeamService) ListTeams(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Team, int64, error) {
	teams, total, err := s.teamRepo.ListForUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, total, nil
}

// GetTeam returns a team visible to its creator and members
func (s *TeamService) GetTeam(ctx context.Context, teamID, userID uint64) (*models.Team, error) {
	team, err := s.reload(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedByID != userID && !team.HasMember(userID) {
		return nil, ErrNotTeamMember
	}
	return team, nil
}

// UpdateTeam applies a partial update; a members list replaces the member
// set, with the creator re-added
func (s *TeamService) UpdateTeam(ctx context.Context, teamID, userID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.findOwned(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "Team name cannot be empty")
		}
		team.Name = name
	}

	var memberIDs []uint64
	if input.Members != nil {
		memberIDs, err = s.resolveMembers(ctx, team.CreatedByID, *input.Members)
		if err != nil {
			return nil, err
		}
	}

	if err := s.teamRepo.Update(ctx, team, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return s.reload(ctx, team.ID)
}

// DeleteTeam removes the team; projects that reference it are left untouched
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, userID uint64) error {
	if _, err := s.findOwned(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

func (s *TeamService) resolveMembers(ctx context.Context, creatorID uint64, members []uint64) ([]uint64, error) {
	ids, err := validateReferences("members", members)
	if err != nil {
		return nil, err
	}
	if err := ensureUsersExist(ctx, s.userRepo, "members", ids); err != nil {
		return nil, err
	}
	return uniqueUint64(append([]uint64{creatorID}, ids...)), nil
}

func (s *TeamService) findOwned(ctx context.Context, teamID, userID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if team.CreatedByID != userID {
		return nil, ErrNotTeamCreator
	}
	return team, nil
}

func (s *TeamService) reload(ctx context.Context, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID, "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}
