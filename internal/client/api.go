package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/collabridge/collabridge-api/internal/dto"
	"github.com/collabridge/collabridge-api/internal/models"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and stores the new session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var auth dto.AuthDTO
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &auth); err != nil {
		return nil, err
	}
	return c.storeAuth(auth)
}

// Login signs in with a username or email and stores the session.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Session, error) {
	var auth dto.AuthDTO
	body := map[string]string{"identifier": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &auth); err != nil {
		return nil, err
	}
	return c.storeAuth(auth)
}

// Logout revokes the token on the server and forgets the session locally,
// even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.token() == "" {
		return c.setSession(nil)
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.setSession(nil); clearErr != nil {
		return clearErr
	}
	if IsStatus(err, http.StatusUnauthorized) {
		return nil
	}
	return err
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*dto.UserDTO, error) {
	if c.token() == "" {
		return nil, ErrNotLoggedIn
	}
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	var users []dto.UserDTO
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

func (c *Client) UpdateUsername(ctx context.Context, username string) (*dto.UsernameDTO, error) {
	var out dto.UsernameDTO
	if err := c.do(ctx, http.MethodPatch, "/api/users/me/username", map[string]string{"username": username}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	var teams []dto.TeamDTO
	err := c.do(ctx, http.MethodGet, "/api/teams", nil, &teams)
	return teams, err
}

func (c *Client) CreateTeam(ctx context.Context, name string, members []uint64) (*dto.TeamDTO, error) {
	var team dto.TeamDTO
	body := map[string]interface{}{"name": name, "members": members}
	if err := c.do(ctx, http.MethodPost, "/api/teams", body, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]dto.ProjectDTO, error) {
	var projects []dto.ProjectDTO
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects)
	return projects, err
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Team        uint64   `json:"team"`
	Members     []uint64 `json:"members,omitempty"`
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*dto.ProjectDTO, error) {
	var project dto.ProjectDTO
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// TaskQuery filters ListTasks. Zero values are omitted.
type TaskQuery struct {
	ProjectID uint64
	Status    models.TaskStatus
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]dto.TaskDTO, error) {
	values := url.Values{}
	if q.ProjectID != 0 {
		values.Set("project", strconv.FormatUint(q.ProjectID, 10))
	}
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	path := "/api/tasks"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var list dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Project     uint64   `json:"project"`
	DueDate     string   `json:"dueDate,omitempty"`
	AssignedTo  []uint64 `json:"assignedTo,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends exactly the given fields.
func (c *Client) UpdateTask(ctx context.Context, id uint64, fields map[string]interface{}) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPatch, taskPath(id), fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ReorderTasks persists the order of one column.
func (c *Client) ReorderTasks(ctx context.Context, status models.TaskStatus, ids []uint64) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	body := map[string]interface{}{"status": status, "tasks": ids}
	err := c.do(ctx, http.MethodPost, "/api/tasks/reorder", body, &tasks)
	return tasks, err
}

func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) ListComments(ctx context.Context, taskID uint64) ([]dto.CommentDTO, error) {
	var comments []dto.CommentDTO
	err := c.do(ctx, http.MethodGet, taskPath(taskID)+"/comments", nil, &comments)
	return comments, err
}

func (c *Client) AddComment(ctx context.Context, taskID uint64, content string) (*dto.CommentDTO, error) {
	var comment dto.CommentDTO
	if err := c.do(ctx, http.MethodPost, taskPath(taskID)+"/comments", map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, nil)
}

func (c *Client) storeAuth(auth dto.AuthDTO) (*Session, error) {
	session := &Session{Token: auth.Token, User: auth.User}
	if err := c.setSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func taskPath(id uint64) string {
	return "/api/tasks/" + strconv.FormatUint(id, 10)
}
