package kanban

import (
	"testing"

	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	todo       = models.TaskStatusTodo
	inProgress = models.TaskStatusInProgress
	done       = models.TaskStatusDone
)

func threeTodo() *Board {
	return NewBoard([]Card{
		{ID: 1, Status: todo, Order: 0},
		{ID: 2, Status: todo, Order: 1},
		{ID: 3, Status: todo, Order: 2},
	})
}

func TestDragIntoEmptyColumn(t *testing.T) {
	b := threeTodo()

	require.NoError(t, b.DragStart(2))
	require.NoError(t, b.DragOver(Target{Status: inProgress}))
	move, err := b.DragEnd(Target{Status: inProgress})
	require.NoError(t, err)

	want := Move{
		TaskID:     2,
		FromStatus: todo,
		Status:     inProgress,
		Order:      0,
		Changed: []Card{
			{ID: 2, Status: inProgress, Order: 0},
			{ID: 3, Status: todo, Order: 1},
		},
		Columns: map[models.TaskStatus][]uint64{
			inProgress: {2},
			todo:       {1, 3},
		},
	}
	if diff := cmp.Diff(want, move); diff != "" {
		t.Errorf("move mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, move.StatusChanged())

	wantTodo := []Card{{ID: 1, Status: todo, Order: 0}, {ID: 3, Status: todo, Order: 1}}
	if diff := cmp.Diff(wantTodo, b.Column(todo)); diff != "" {
		t.Errorf("todo column mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, b.Dragging())
}

func TestDragOntoTaskInsertsBeforeIt(t *testing.T) {
	b := NewBoard([]Card{
		{ID: 1, Status: todo, Order: 0},
		{ID: 2, Status: done, Order: 0},
		{ID: 3, Status: done, Order: 1},
	})

	require.NoError(t, b.DragStart(1))
	require.NoError(t, b.DragOver(Target{TaskID: 3}))
	move, err := b.DragEnd(Target{TaskID: 3})
	require.NoError(t, err)

	assert.Equal(t, done, move.Status)
	assert.Equal(t, 1, move.Order)
	assert.Equal(t, []uint64{2, 1, 3}, move.Columns[done])
	assert.Empty(t, move.Columns[todo])
	assert.Empty(t, b.Column(todo))
}

func TestReorderWithinColumn(t *testing.T) {
	b := threeTodo()

	require.NoError(t, b.DragStart(3))
	move, err := b.DragEnd(Target{TaskID: 1})
	require.NoError(t, err)

	assert.False(t, move.StatusChanged())
	assert.Equal(t, map[models.TaskStatus][]uint64{todo: {3, 1, 2}}, move.Columns)
	assert.Len(t, move.Changed, 3)
}

func TestDragOverUsesSentinelOrder(t *testing.T) {
	b := threeTodo()

	require.NoError(t, b.DragStart(1))
	require.NoError(t, b.DragOver(Target{Status: done}))

	col := b.Column(done)
	require.Len(t, col, 1)
	assert.Equal(t, constants.DragSentinelOrder, col[0].Order)

	b.Cancel()
	if diff := cmp.Diff(threeTodo().Cards(), b.Cards()); diff != "" {
		t.Errorf("cancel did not restore board (-want +got):\n%s", diff)
	}
}

func TestDragErrors(t *testing.T) {
	b := threeTodo()

	assert.ErrorIs(t, b.DragStart(42), ErrUnknownCard)
	assert.ErrorIs(t, b.DragOver(Target{Status: done}), ErrNotDragging)
	_, err := b.DragEnd(Target{Status: done})
	assert.ErrorIs(t, err, ErrNotDragging)

	require.NoError(t, b.DragStart(1))
	assert.ErrorIs(t, b.DragOver(Target{TaskID: 42}), ErrUnknownCard)
	_, err = b.DragEnd(Target{Status: "blocked"})
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestDropOnItselfKeepsPosition(t *testing.T) {
	b := threeTodo()

	require.NoError(t, b.DragStart(2))
	require.NoError(t, b.DragOver(Target{Status: done}))
	require.NoError(t, b.DragOver(Target{TaskID: 2}))
	move, err := b.DragEnd(Target{TaskID: 2})
	require.NoError(t, err)

	assert.False(t, move.StatusChanged())
	assert.Equal(t, 1, move.Order)
	assert.Empty(t, move.Changed)
	assert.Equal(t, map[models.TaskStatus][]uint64{todo: {1, 2, 3}}, move.Columns)
	if diff := cmp.Diff(threeTodo().Cards(), b.Cards()); diff != "" {
		t.Errorf("board changed (-want +got):\n%s", diff)
	}
}
