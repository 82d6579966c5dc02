package services

import (
	"context"
	"testing"
	"time"

	"github.com/collabridge/collabridge-api/internal/auth"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	ctx      context.Context
	users    repository.UserRepository
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	comments repository.CommentRepository

	auth       *AuthService
	userSvc    *UserService
	teamSvc    *TeamService
	projectSvc *ProjectService
	taskSvc    *TaskService
	commentSvc *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		ctx:      context.Background(),
		users:    repository.NewUserRepository(db),
		teams:    repository.NewTeamRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		comments: repository.NewCommentRepository(db),
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	f.auth = NewAuthService(f.users, tokens, auth.NewMemoryRevocationList())
	f.userSvc = NewUserService(f.users).WithClock(func() time.Time { return fixedNow })
	f.teamSvc = NewTeamService(f.teams, f.users)
	f.projectSvc = NewProjectService(f.projects, f.teams, f.users)
	f.taskSvc = NewTaskService(f.tasks, f.projects, f.teams, f.users).WithClock(func() time.Time { return fixedNow })
	f.commentSvc = NewCommentService(f.comments, f.tasks, f.projects, f.teams)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	return testutil.CreateUser(t, f.db, username)
}

func (f *fixture) team(t *testing.T, creator *models.User, members ...uint64) *models.Team {
	t.Helper()
	team, err := f.teamSvc.CreateTeam(f.ctx, CreateTeamInput{Name: "Team", Members: members, CreatorID: creator.ID})
	require.NoError(t, err)
	return team
}

func (f *fixture) project(t *testing.T, creator *models.User, team *models.Team, members ...uint64) *models.Project {
	t.Helper()
	project, err := f.projectSvc.CreateProject(f.ctx, CreateProjectInput{
		Name:      "Project",
		TeamID:    team.ID,
		Members:   members,
		CreatorID: creator.ID,
	})
	require.NoError(t, err)
	return project
}

func (f *fixture) task(t *testing.T, creator *models.User, project *models.Project, assignees ...uint64) *models.Task {
	t.Helper()
	task, err := f.taskSvc.CreateTask(f.ctx, CreateTaskInput{
		Title:      "Write spec",
		ProjectID:  project.ID,
		AssignedTo: assignees,
		CreatorID:  creator.ID,
	})
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }
