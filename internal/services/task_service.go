package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/collabridge/collabridge-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrNoTaskAccess         = errors.New("user does not have access to this task")
	ErrNotTaskCreator       = errors.New("only the task creator can perform this action")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrAssigneeStatusOnly   = errors.New("assignees can only update the task status")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      accessResolver
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      accessResolver{teamRepo: teamRepo, projectRepo: projectRepo},
		now:         time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uint64
	DueDate     *string
	AssignedTo  []uint64
	Status      *string
	Priority    *string
	Order       *int
	CreatorID   uint64
}

// UpdateTaskInput represents a partial task update. Fields lists every key
// present in the request so the assignee tier can reject anything but status.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	ProjectID   *uint64
	DueDate     *string
	AssignedTo  *[]uint64
	Status      *string
	Priority    *string
	Order       *int
	Fields      []string
}

// ReorderTasksInput lists one column's tasks in their new order
type ReorderTasksInput struct {
	Status  string
	TaskIDs []uint64
}

// CreateTask creates a task in an existing project
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "Title is required")
	}
	if err := s.ensureProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
		ProjectID:   input.ProjectID,
		CreatedByID: input.CreatorID,
	}

	if input.DueDate != nil && strings.TrimSpace(*input.DueDate) != "" {
		due, err := parseDueDate(*input.DueDate, s.now())
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if input.Order != nil {
		task.Order = *input.Order
	}

	assigneeIDs, err := s.resolveAssignees(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(ctx, task.ID)
}

// ListTasks returns tasks visible to the user
func (s *TaskService) ListTasks(ctx context.Context, userID uint64, filter repository.TaskFilter) ([]models.Task, int64, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, invalid("status", "Invalid status")
	}

	tasks, total, err := s.taskRepo.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task the user can read
func (s *TaskService) GetTask(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.reload(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReadable(ctx, task, userID); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask lets the creator change any field and an assignee change only the status
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.reload(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch {
	case task.CreatedByID == userID:
		if err := s.applyOwnerUpdate(ctx, task, input); err != nil {
			return nil, err
		}
		var assigneeIDs []uint64
		if input.AssignedTo != nil {
			assigneeIDs, err = s.resolveAssignees(ctx, *input.AssignedTo)
			if err != nil {
				return nil, err
			}
		}
		if err := s.taskRepo.Update(ctx, task, assigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}

	case task.IsAssignee(userID):
		if input.Status == nil || len(input.Fields) != 1 || input.Fields[0] != "status" {
			return nil, ErrAssigneeStatusOnly
		}
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
		if err := s.taskRepo.Update(ctx, task, nil); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}

	default:
		return nil, ErrTaskPermissionDenied
	}

	return s.reload(ctx, task.ID)
}

// DeleteTask removes the task; its comments are left in place
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID uint64) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	if task.CreatedByID != userID {
		return ErrNotTaskCreator
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ReorderTasks persists a column's order as the index of each task in the list
func (s *TaskService) ReorderTasks(ctx context.Context, userID uint64, input ReorderTasksInput) ([]models.Task, error) {
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if len(input.TaskIDs) == 0 {
		return nil, invalid("tasks", "At least one task is required")
	}
	ids, err := validateReferences("tasks", input.TaskIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(input.TaskIDs) {
		return nil, invalid("tasks", "Duplicate task in list")
	}

	tasks, err := s.taskRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) != len(ids) {
		return nil, ErrTaskNotFound
	}

	orders := make(map[uint64]int, len(ids))
	for i, id := range ids {
		orders[id] = i
	}

	// Tasks that keep their position only need read access; moving one
	// needs the same creator or assignee rights as a PATCH.
	byID := make(map[uint64]*models.Task, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if err := s.ensureReadable(ctx, task, userID); err != nil {
			return nil, err
		}
		if task.Status != status {
			return nil, invalid("tasks", fmt.Sprintf("Task %d is not in column %s", task.ID, status))
		}
		if task.Order != orders[task.ID] && task.CreatedByID != userID && !task.IsAssignee(userID) {
			return nil, ErrTaskPermissionDenied
		}
		byID[task.ID] = task
	}

	ordered := make([]models.Task, 0, len(ids))
	for i, id := range ids {
		byID[id].Order = i
		ordered = append(ordered, *byID[id])
	}

	if err := s.taskRepo.UpdateOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("failed to reorder tasks: %w", err)
	}
	return ordered, nil
}

func (s *TaskService) applyOwnerUpdate(ctx context.Context, task *models.Task, input UpdateTaskInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return invalid("title", "Title cannot be empty")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.ProjectID != nil {
		if err := s.ensureProject(ctx, *input.ProjectID); err != nil {
			return err
		}
		task.ProjectID = *input.ProjectID
	}
	if input.DueDate != nil {
		if strings.TrimSpace(*input.DueDate) == "" {
			task.DueDate = nil
		} else {
			due, err := parseDueDate(*input.DueDate, s.now())
			if err != nil {
				return err
			}
			task.DueDate = &due
		}
	}
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := parsePriority(*input.Priority)
		if err != nil {
			return err
		}
		task.Priority = priority
	}
	if input.Order != nil {
		task.Order = *input.Order
	}
	return nil
}

func (s *TaskService) ensureReadable(ctx context.Context, task *models.Task, userID uint64) error {
	ok, err := s.access.canReadTask(ctx, task, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoTaskAccess
	}
	return nil
}

func (s *TaskService) ensureProject(ctx context.Context, projectID uint64) error {
	if projectID == 0 {
		return invalid("project", "A valid project is required")
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

func (s *TaskService) resolveAssignees(ctx context.Context, assignees []uint64) ([]uint64, error) {
	ids, err := validateReferences("assignedTo", assignees)
	if err != nil {
		return nil, err
	}
	if err := ensureUsersExist(ctx, s.userRepo, "assignedTo", ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *TaskService) reload(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func parseStatus(raw string) (models.TaskStatus, error) {
	status := models.TaskStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", invalid("status", "Status must be one of todo, in-progress, done")
	}
	return status, nil
}

func parsePriority(raw string) (models.TaskPriority, error) {
	priority := models.TaskPriority(strings.TrimSpace(raw))
	if !priority.Valid() {
		return "", invalid("priority", "Priority must be one of low, medium, high")
	}
	return priority, nil
}
