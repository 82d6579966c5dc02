package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/collabridge/collabridge-api/internal/dto"
	"github.com/collabridge/collabridge-api/internal/kanban"
	"github.com/collabridge/collabridge-api/internal/models"
)

// LoadBoard fetches the tasks of a project into a kanban board.
func (c *Client) LoadBoard(ctx context.Context, projectID uint64) (*kanban.Board, []dto.TaskDTO, error) {
	tasks, err := c.ListTasks(ctx, TaskQuery{ProjectID: projectID})
	if err != nil {
		return nil, nil, err
	}

	cards := make([]kanban.Card, len(tasks))
	for i, t := range tasks {
		cards[i] = kanban.Card{ID: t.ID, Status: t.Status, Order: t.Order}
	}
	return kanban.NewBoard(cards), tasks, nil
}

// PersistMove saves a finished drag: the dragged task's new status first,
// then the order of every column the drag touched.
func (c *Client) PersistMove(ctx context.Context, move kanban.Move) error {
	if move.StatusChanged() {
		if _, err := c.UpdateTask(ctx, move.TaskID, map[string]interface{}{"status": move.Status}); err != nil {
			return fmt.Errorf("update status of task %d: %w", move.TaskID, err)
		}
	}

	statuses := make([]models.TaskStatus, 0, len(move.Columns))
	for status := range move.Columns {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	for _, status := range statuses {
		ids := move.Columns[status]
		if len(ids) == 0 {
			continue
		}
		if _, err := c.ReorderTasks(ctx, status, ids); err != nil {
			return fmt.Errorf("reorder %s column: %w", status, err)
		}
	}
	return nil
}
