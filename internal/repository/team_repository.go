package repository

import (
	"context"
	"time"

	"github.com/collabridge/collabridge-api/internal/database"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its members
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team, memberIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}
		return insertTeamMembers(tx, team.ID, memberIDs)
	})
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListForUser lists teams where the user is creator or member
func (r *GormTeamRepository) ListForUser(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Team, int64, error) {
	db := r.db.WithContext(ctx)

	visible := func() *gorm.DB {
		memberSubQuery := db.Model(&models.TeamMember{}).
			Select("1").
			Where("team_members.team_id = teams.id").
			Where("team_members.user_id = ?", userID)

		return db.Model(&models.Team{}).
			Where("teams.created_by_id = ?", userID).
			Or("EXISTS (?)", memberSubQuery)
	}

	var total int64
	if err := visible().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []models.Team
	if err := visible().
		Preload("Members.User").
		Order("teams.created_at DESC, teams.id DESC").
		Scopes(database.Paginate(page)).
		Find(&teams).Error; err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// Update saves the team and optionally replaces its member set
func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team, memberIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(team).Error; err != nil {
			return err
		}
		if memberIDs == nil {
			return nil
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return insertTeamMembers(tx, team.ID, memberIDs)
	})
}

// Delete deletes a team and its member rows. Projects referencing the team are left untouched.
func (r *GormTeamRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	})
}

// IsMember reports whether the user is in the team's member set
func (r *GormTeamRepository) IsMember(ctx context.Context, teamID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func insertTeamMembers(tx *gorm.DB, teamID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.TeamMember, len(userIDs))
	for i, uid := range userIDs {
		rows[i] = models.TeamMember{TeamID: teamID, UserID: uid, JoinedAt: now}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
