package handlers

import (
	"net/http"
	"testing"

	"github.com/collabridge/collabridge-api/internal/dto"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	handlerSuite
}

// TestListTasks_Success tests successful task listing
func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createUser("alice")
	project := suite.createProject(user, suite.createTeam(user))
	task := suite.createTask(user, project)

	w := suite.request(http.MethodGet, "/api/tasks", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.data(w, &response)
	assert.Nil(suite.T(), response.Pagination)
	if assert.Len(suite.T(), response.Tasks, 1) {
		assert.Equal(suite.T(), task.Title, response.Tasks[0].Title)
		assert.Equal(suite.T(), project.ID, response.Tasks[0].Project)
	}
}

// TestListTasks_Paginated tests that page and limit add pagination metadata
func (suite *TaskHandlerTestSuite) TestListTasks_Paginated() {
	user := suite.createUser("alice")
	project := suite.createProject(user, suite.createTeam(user))
	for i := 0; i < 3; i++ {
		suite.createTask(user, project)
	}

	w := suite.request(http.MethodGet, "/api/tasks?page=2&limit=2&status=todo", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.data(w, &response)
	assert.Len(suite.T(), response.Tasks, 1)
	if assert.NotNil(suite.T(), response.Pagination) {
		assert.EqualValues(suite.T(), 3, response.Pagination.Total)
		assert.Equal(suite.T(), 2, response.Pagination.Page)
	}

	w = suite.request(http.MethodGet, "/api/tasks?status=blocked", nil, user.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := suite.request(http.MethodGet, "/api/tasks", nil, 0)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestGetTask_Access tests read access for team members and outsiders
func (suite *TaskHandlerTestSuite) TestGetTask_Access() {
	alice := suite.createUser("alice")
	teammate := suite.createUser("teammate")
	outsider := suite.createUser("outsider")
	task := suite.createTask(alice, suite.createProject(alice, suite.createTeam(alice, teammate.ID)))

	assert.Equal(suite.T(), http.StatusOK, suite.request(http.MethodGet, idPath("/api/tasks/", task.ID), nil, teammate.ID).Code)
	assert.Equal(suite.T(), http.StatusForbidden, suite.request(http.MethodGet, idPath("/api/tasks/", task.ID), nil, outsider.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodGet, "/api/tasks/999", nil, alice.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodGet, "/api/tasks/abc", nil, alice.ID).Code)
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createUser("alice")
	assignee := suite.createUser("bob")
	project := suite.createProject(user, suite.createTeam(user))

	w := suite.request(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":      "New Task",
		"project":    project.ID,
		"dueDate":    tomorrow(),
		"assignedTo": []uint64{assignee.ID},
		"priority":   "high",
	}, user.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.data(w, &response)
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)
	assert.Equal(suite.T(), models.TaskPriorityHigh, response.Priority)
	assert.NotNil(suite.T(), response.DueDate)
	if assert.Len(suite.T(), response.AssignedTo, 1) {
		assert.Equal(suite.T(), "bob", response.AssignedTo[0].Username)
	}
}

// TestCreateTask_InvalidRequest tests creation with invalid input
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	user := suite.createUser("alice")
	project := suite.createProject(user, suite.createTeam(user))

	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPost, "/api/tasks", "{not json", user.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPost, "/api/tasks", map[string]interface{}{"project": project.ID}, user.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title": "Past", "project": project.ID, "dueDate": "2000-01-01",
	}, user.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodPost, "/api/tasks", map[string]interface{}{
		"title": "Orphan", "project": 999,
	}, user.ID).Code)
}

// TestUpdateTask_Assignee tests the status-only tier for assignees
func (suite *TaskHandlerTestSuite) TestUpdateTask_Assignee() {
	creator := suite.createUser("alice")
	assignee := suite.createUser("bob")
	task := suite.createTask(creator, suite.createProject(creator, suite.createTeam(creator)), assignee.ID)
	path := idPath("/api/tasks/", task.ID)

	w := suite.request(http.MethodPatch, path, map[string]string{"title": "x"}, assignee.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, path, map[string]interface{}{"status": "done", "order": 3}, assignee.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPatch, path, map[string]string{"status": "done"}, assignee.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.data(w, &response)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
	assert.Equal(suite.T(), task.Title, response.Title)
	assert.Equal(suite.T(), task.Order, response.Order)
}

// TestUpdateTask_Creator tests partial updates by the creator
func (suite *TaskHandlerTestSuite) TestUpdateTask_Creator() {
	creator := suite.createUser("alice")
	other := suite.createUser("carol")
	task := suite.createTask(creator, suite.createProject(creator, suite.createTeam(creator, other.ID)))
	path := idPath("/api/tasks/", task.ID)

	w := suite.request(http.MethodPatch, path, map[string]interface{}{"title": "Updated", "order": 4}, creator.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.data(w, &response)
	assert.Equal(suite.T(), "Updated", response.Title)
	assert.Equal(suite.T(), 4, response.Order)
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)

	assert.Equal(suite.T(), http.StatusForbidden, suite.request(http.MethodPatch, path, map[string]string{"status": "done"}, other.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPatch, path, "[1,2]", creator.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPatch, path, map[string]string{"priority": "urgent"}, creator.ID).Code)
}

// TestDeleteTask tests that only the creator can delete
func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	creator := suite.createUser("alice")
	assignee := suite.createUser("bob")
	task := suite.createTask(creator, suite.createProject(creator, suite.createTeam(creator)), assignee.ID)
	path := idPath("/api/tasks/", task.ID)

	assert.Equal(suite.T(), http.StatusForbidden, suite.request(http.MethodDelete, path, nil, assignee.ID).Code)
	assert.Equal(suite.T(), http.StatusOK, suite.request(http.MethodDelete, path, nil, creator.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodDelete, path, nil, creator.ID).Code)
}

// TestReorderTasks tests column order persistence
func (suite *TaskHandlerTestSuite) TestReorderTasks() {
	user := suite.createUser("alice")
	project := suite.createProject(user, suite.createTeam(user))
	a := suite.createTask(user, project)
	b := suite.createTask(user, project)

	w := suite.request(http.MethodPost, "/api/tasks/reorder", map[string]interface{}{
		"status": "todo",
		"tasks":  []uint64{b.ID, a.ID},
	}, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []dto.TaskDTO
	suite.data(w, &response)
	if assert.Len(suite.T(), response, 2) {
		assert.Equal(suite.T(), b.ID, response[0].ID)
		assert.Equal(suite.T(), 0, response[0].Order)
		assert.Equal(suite.T(), 1, response[1].Order)
	}

	w = suite.request(http.MethodPost, "/api/tasks/reorder", map[string]interface{}{"status": "todo"}, user.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestReorderTasks_TeamMemberCannotMoveOthersTasks tests that reading a column is not enough to reorder it
func (suite *TaskHandlerTestSuite) TestReorderTasks_TeamMemberCannotMoveOthersTasks() {
	owner := suite.createUser("owner")
	mate := suite.createUser("mate")
	project := suite.createProject(owner, suite.createTeam(owner, mate.ID))
	a := suite.createTask(owner, project)
	b := suite.createTask(owner, project)

	w := suite.request(http.MethodPost, "/api/tasks/reorder", map[string]interface{}{
		"status": "todo",
		"tasks":  []uint64{b.ID, a.ID},
	}, mate.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, a.ID).Error)
	assert.Equal(suite.T(), 0, stored.Order)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
