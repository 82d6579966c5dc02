package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/collabridge/collabridge-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

// handlerSuite wires real services over in-memory sqlite. The acting user is
// taken from a test header instead of a token.
type handlerSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	teamService    *services.TeamService
	projectService *services.ProjectService
	taskService    *services.TaskService
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewDB(s.T())

	users := repository.NewUserRepository(s.db)
	teams := repository.NewTeamRepository(s.db)
	projects := repository.NewProjectRepository(s.db)
	tasks := repository.NewTaskRepository(s.db)
	comments := repository.NewCommentRepository(s.db)

	s.teamService = services.NewTeamService(teams, users)
	s.projectService = services.NewProjectService(projects, teams, users)
	s.taskService = services.NewTaskService(tasks, projects, teams, users)
	commentService := services.NewCommentService(comments, tasks, projects, teams)

	teamHandler := NewTeamHandler(s.teamService)
	projectHandler := NewProjectHandler(s.projectService)
	taskHandler := NewTaskHandler(s.taskService)
	commentHandler := NewCommentHandler(commentService)
	userHandler := NewUserHandler(services.NewUserService(users))

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 64); err == nil {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})
	id := middleware.RequireIDParam("id")

	api.GET("/users", userHandler.ListUsers)
	api.PATCH("/users/me/username", userHandler.UpdateUsername)

	api.POST("/teams", teamHandler.CreateTeam)
	api.GET("/teams", teamHandler.ListTeams)
	api.GET("/teams/:id", id, teamHandler.GetTeam)
	api.PATCH("/teams/:id", id, teamHandler.UpdateTeam)
	api.DELETE("/teams/:id", id, teamHandler.DeleteTeam)

	api.POST("/projects", projectHandler.CreateProject)
	api.GET("/projects", projectHandler.ListProjects)
	api.GET("/projects/:id", id, projectHandler.GetProject)
	api.PATCH("/projects/:id", id, projectHandler.UpdateProject)
	api.DELETE("/projects/:id", id, projectHandler.DeleteProject)

	api.POST("/tasks", taskHandler.CreateTask)
	api.GET("/tasks", taskHandler.ListTasks)
	api.POST("/tasks/reorder", taskHandler.ReorderTasks)
	api.GET("/tasks/:id", id, taskHandler.GetTask)
	api.PATCH("/tasks/:id", id, taskHandler.UpdateTask)
	api.DELETE("/tasks/:id", id, taskHandler.DeleteTask)

	api.POST("/tasks/:id/comments", id, commentHandler.CreateComment)
	api.GET("/tasks/:id/comments", id, commentHandler.ListComments)
	api.DELETE("/comments/:id", id, commentHandler.DeleteComment)

	s.router = r
}

func (s *handlerSuite) request(method, path string, body interface{}, userID uint64) *httptest.ResponseRecorder {
	var raw []byte
	switch v := body.(type) {
	case nil:
	case string:
		raw = []byte(v)
	default:
		var err error
		raw, err = json.Marshal(v)
		s.Require().NoError(err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(userID, 10))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) data(w *httptest.ResponseRecorder, out interface{}) {
	decodeEnvelope(s.T(), w.Body.Bytes(), out)
}

func (s *handlerSuite) createUser(username string) *models.User {
	return testutil.CreateUser(s.T(), s.db, username)
}

func (s *handlerSuite) createTeam(creator *models.User, members ...uint64) *models.Team {
	team, err := s.teamService.CreateTeam(s.T().Context(), services.CreateTeamInput{Name: "Team", Members: members, CreatorID: creator.ID})
	s.Require().NoError(err)
	return team
}

func (s *handlerSuite) createProject(creator *models.User, team *models.Team, members ...uint64) *models.Project {
	project, err := s.projectService.CreateProject(s.T().Context(), services.CreateProjectInput{
		Name: "Project", TeamID: team.ID, Members: members, CreatorID: creator.ID,
	})
	s.Require().NoError(err)
	return project
}

func (s *handlerSuite) createTask(creator *models.User, project *models.Project, assignees ...uint64) *models.Task {
	task, err := s.taskService.CreateTask(s.T().Context(), services.CreateTaskInput{
		Title: "Write spec", ProjectID: project.ID, AssignedTo: assignees, CreatorID: creator.ID,
	})
	s.Require().NoError(err)
	return task
}

func tomorrow() string {
	return time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
}

func idPath(prefix string, id uint64) string {
	return prefix + strconv.FormatUint(id, 10)
}
