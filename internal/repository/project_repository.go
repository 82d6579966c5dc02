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

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its extra members
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project, memberIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return insertProjectMembers(tx, project.ID, memberIDs)
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists projects where the user is creator, member, or a member of the project's team
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uint64, page utils.PaginationParams) ([]models.Project, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := visibleProjects(db, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := visibleProjects(db, userID).
		Preload("Team").
		Preload("Members.User").
		Order("projects.created_at DESC, projects.id DESC").
		Scopes(database.Paginate(page)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update saves the project and optionally replaces its extra member set
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, memberIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		if memberIDs == nil {
			return nil
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return insertProjectMembers(tx, project.ID, memberIDs)
	})
}

// Delete deletes a project and its member rows. Tasks referencing the project are left untouched.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// IsMember reports whether the user is one of the project's extra members
func (r *GormProjectRepository) IsMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// visibleProjects selects projects whose access set contains userID:
// the creator, the extra members, and the members of the owning team.
func visibleProjects(db *gorm.DB, userID uint64) *gorm.DB {
	projectMember := db.Model(&models.ProjectMember{}).
		Select("1").
		Where("project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID)

	teamMember := db.Model(&models.TeamMember{}).
		Select("1").
		Where("team_members.team_id = projects.team_id").
		Where("team_members.user_id = ?", userID)

	return db.Model(&models.Project{}).
		Where("projects.created_by_id = ?", userID).
		Or("EXISTS (?)", projectMember).
		Or("EXISTS (?)", teamMember)
}

func insertProjectMembers(tx *gorm.DB, projectID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.ProjectMember, len(userIDs))
	for i, uid := range userIDs {
		rows[i] = models.ProjectMember{ProjectID: projectID, UserID: uid, CreatedAt: now}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
