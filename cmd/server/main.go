package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collabridge/collabridge-api/internal/auth"
	"github.com/collabridge/collabridge-api/internal/config"
	"github.com/collabridge/collabridge-api/internal/database"
	"github.com/collabridge/collabridge-api/internal/jobs"
	"github.com/collabridge/collabridge-api/internal/logger"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:           "collabridge",
	Short:         "Collabridge team collaboration API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and exit",
	RunE:  runMigrate,
}

var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Repair every task's comment counter once and exit",
	RunE:  runRecount,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, recountCmd)
}

func main() {
	// Running the binary bare keeps the old behaviour of starting the server.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads config, builds the logger and opens a migrated database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Output: cfg.Log.Output,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	log.Info("Migrations applied")
	return nil
}

func runRecount(cmd *cobra.Command, args []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	jobs.RecountComments(cmd.Context(), repository.NewTaskRepository(db), log, 5*time.Minute)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	gin.SetMode(cfg.Server.Mode)

	revocations, closeRedis, err := newRevocationList(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRedis()

	store, err := router.NewSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}

	engine := router.New(router.Deps{
		Config:      cfg,
		DB:          db,
		Logger:      log,
		Revocations: revocations,
		Sessions:    store,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.ScheduleRecount(cfg.Jobs.RecountSchedule, repository.NewTaskRepository(db)); err != nil {
		return fmt.Errorf("invalid recount schedule %q: %w", cfg.Jobs.RecountSchedule, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Shutdown complete")
	return nil
}

// newRevocationList uses redis when it is configured so logouts survive
// restarts and are shared between instances.
func newRevocationList(ctx context.Context, cfg *config.Config, log *zap.Logger) (auth.RevocationList, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		return auth.NewMemoryRevocationList(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return auth.NewRedisRevocationList(client), closeFn, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}
}
