package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/collabridge/collabridge-api/internal/dto"
	apierrors "github.com/collabridge/collabridge-api/internal/errors"
	"github.com/collabridge/collabridge-api/internal/middleware"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"github.com/collabridge/collabridge-api/internal/services"
	"github.com/collabridge/collabridge-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks visible to the current user.
// Can filter by project and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := repository.TaskFilter{Page: utils.GetPaginationParams(c)}
	if raw := c.Query("project"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project")
			return
		}
		filter.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		filter.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), userID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := dto.TaskListResponse{Tasks: dto.ToTaskDTOs(tasks)}
	if filter.Page.Enabled() {
		response.Pagination = &utils.PaginationResponse{
			Page:  filter.Page.Page,
			Limit: filter.Page.Limit,
			Total: total,
		}
	}

	respond(c, http.StatusOK, "Tasks fetched successfully", response)
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetIDParam(c, "id"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task fetched successfully", dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Project     uint64   `json:"project"`
		DueDate     *string  `json:"dueDate"`
		AssignedTo  []uint64 `json:"assignedTo"`
		Status      *string  `json:"status"`
		Priority    *string  `json:"priority"`
		Order       *int     `json:"order"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.Project,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		Order:       req.Order,
		CreatorID:   userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Task created successfully", dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The set of keys in the body is kept
// because assignees may only send status.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Project     *uint64   `json:"project"`
		DueDate     *string   `json:"dueDate"`
		AssignedTo  *[]uint64 `json:"assignedTo"`
		Status      *string   `json:"status"`
		Priority    *string   `json:"priority"`
		Order       *int      `json:"order"`
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var keys map[string]json.RawMessage
	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &keys); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := make([]string, 0, len(keys))
	for key := range keys {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetIDParam(c, "id"), userID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.Project,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		Order:       req.Order,
		Fields:      fields,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task updated successfully", dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetIDParam(c, "id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Task deleted successfully", nil)
}

// ReorderTasks persists the order of one board column
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type ReorderTasksRequest struct {
		Status string   `json:"status" binding:"required"`
		Tasks  []uint64 `json:"tasks" binding:"required"`
	}

	var req ReorderTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.ReorderTasks(c.Request.Context(), userID, services.ReorderTasksInput{
		Status:  req.Status,
		TaskIDs: req.Tasks,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tasks reordered successfully", dto.ToTaskDTOs(tasks))
}
