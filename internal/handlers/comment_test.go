package handlers

import (
	"net/http"
	"testing"

	"github.com/collabridge/collabridge-api/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CommentHandlerTestSuite struct {
	handlerSuite
}

func (suite *CommentHandlerTestSuite) TestCommentLifecycle() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	task := suite.createTask(alice, suite.createProject(alice, suite.createTeam(alice, bob.ID)))
	commentsPath := idPath("/api/tasks/", task.ID) + "/comments"

	w := suite.request(http.MethodPost, commentsPath, map[string]string{"content": "  looks good  "}, bob.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var created dto.CommentDTO
	suite.data(w, &created)
	assert.Equal(suite.T(), "looks good", created.Content)
	assert.Equal(suite.T(), "bob", created.Author.Username)
	assert.Equal(suite.T(), task.ID, created.Task)

	w = suite.request(http.MethodGet, idPath("/api/tasks/", task.ID), nil, alice.ID)
	var taskDTO dto.TaskDTO
	suite.data(w, &taskDTO)
	assert.Equal(suite.T(), 1, taskDTO.CommentsCount)

	w = suite.request(http.MethodGet, commentsPath, nil, alice.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var comments []dto.CommentDTO
	suite.data(w, &comments)
	assert.Len(suite.T(), comments, 1)

	commentPath := idPath("/api/comments/", created.ID)
	assert.Equal(suite.T(), http.StatusForbidden, suite.request(http.MethodDelete, commentPath, nil, alice.ID).Code)
	assert.Equal(suite.T(), http.StatusOK, suite.request(http.MethodDelete, commentPath, nil, bob.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodDelete, commentPath, nil, bob.ID).Code)

	w = suite.request(http.MethodGet, idPath("/api/tasks/", task.ID), nil, alice.ID)
	suite.data(w, &taskDTO)
	assert.Equal(suite.T(), 0, taskDTO.CommentsCount)
}

func (suite *CommentHandlerTestSuite) TestCommentValidation() {
	alice := suite.createUser("alice")
	outsider := suite.createUser("outsider")
	task := suite.createTask(alice, suite.createProject(alice, suite.createTeam(alice)))
	commentsPath := idPath("/api/tasks/", task.ID) + "/comments"

	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodPost, commentsPath, map[string]string{"content": "   "}, alice.ID).Code)
	assert.Equal(suite.T(), http.StatusForbidden, suite.request(http.MethodPost, commentsPath, map[string]string{"content": "hi"}, outsider.ID).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodGet, "/api/tasks/999/comments", nil, alice.ID).Code)
	assert.Equal(suite.T(), http.StatusBadRequest, suite.request(http.MethodGet, "/api/tasks/0/comments", nil, alice.ID).Code)
}

func TestCommentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CommentHandlerTestSuite))
}
