package database

import (
	"fmt"
	"strings"

	"github.com/collabridge/collabridge-api/internal/config"
	"github.com/collabridge/collabridge-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted model in migration order.
var Models = []interface{}{
	&models.User{},
	&models.Team{},
	&models.TeamMember{},
	&models.Project{},
	&models.ProjectMember{},
	&models.Task{},
	&models.TaskAssignment{},
	&models.Comment{},
}

// Connect opens a gorm connection for the configured driver.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// GormConfig returns the gorm settings shared by the server and tests.
// References between collections are plain ids, so no FK constraints are created.
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(gormLogLevel(logLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return err
	}
	log.Info("database migrations completed")
	return nil
}
