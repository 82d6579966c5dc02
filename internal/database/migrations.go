package database

import (
	"fmt"

	"github.com/collabridge/collabridge-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the listing and board queries.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Board columns are read by status, then sort order
		{&models.Task{}, "tasks", "idx_tasks_project_status_order", "project_id, status, sort_order"},
		{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_user_task", "user_id, task_id"},
		{&models.TeamMember{}, "team_members", "idx_team_members_user_team", "user_id, team_id"},
		{&models.ProjectMember{}, "project_members", "idx_project_members_user_project", "user_id, project_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
