// Package kanban keeps the local order of a task board while cards are
// dragged between status columns.
package kanban

import (
	"errors"
	"sort"

	"github.com/collabridge/collabridge-api/internal/constants"
	"github.com/collabridge/collabridge-api/internal/models"
)

var (
	ErrUnknownCard = errors.New("kanban: unknown card")
	ErrNotDragging = errors.New("kanban: no drag in progress")
)

// Card is the part of a task the board needs.
type Card struct {
	ID     uint64
	Status models.TaskStatus
	Order  int
}

// Target is where a card is hovering or was dropped. A zero TaskID means
// the empty space of the Status column.
type Target struct {
	Status models.TaskStatus
	TaskID uint64
}

// Move describes a finished drag.
type Move struct {
	TaskID     uint64
	FromStatus models.TaskStatus
	Status     models.TaskStatus
	Order      int
	// Changed lists every card whose status or order differs from before the drag.
	Changed []Card
	// Columns holds the new id order of each column the drag touched.
	Columns map[models.TaskStatus][]uint64
}

// StatusChanged reports whether the card moved to another column.
func (m Move) StatusChanged() bool {
	return m.FromStatus != m.Status
}

// Board is not safe for concurrent use.
type Board struct {
	cards    []Card
	dragging uint64
	snapshot map[uint64]Card
}

func NewBoard(cards []Card) *Board {
	b := &Board{cards: make([]Card, len(cards))}
	copy(b.cards, cards)
	return b
}

// Cards returns a copy of every card.
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// Column returns the cards of one status sorted by order.
func (b *Board) Column(status models.TaskStatus) []Card {
	return b.column(status, 0)
}

// Dragging returns the id of the card being dragged, or zero.
func (b *Board) Dragging() uint64 {
	return b.dragging
}

// DragStart records the card being dragged.
func (b *Board) DragStart(taskID uint64) error {
	if b.find(taskID) < 0 {
		return ErrUnknownCard
	}
	b.dragging = taskID
	b.snapshot = make(map[uint64]Card, len(b.cards))
	for _, c := range b.cards {
		b.snapshot[c.ID] = c
	}
	return nil
}

// DragOver relabels the dragged card to the hovered column and parks it at
// the end of that column. Nothing is renumbered until DragEnd.
func (b *Board) DragOver(target Target) error {
	if b.dragging == 0 {
		return ErrNotDragging
	}
	status, ok := b.targetStatus(target)
	if !ok {
		return ErrUnknownCard
	}

	i := b.find(b.dragging)
	b.cards[i].Status = status
	b.cards[i].Order = constants.DragSentinelOrder
	return nil
}

// DragEnd drops the card before the target task, or at the end of the
// column, and renumbers the affected columns from zero.
func (b *Board) DragEnd(target Target) (Move, error) {
	if b.dragging == 0 {
		return Move{}, ErrNotDragging
	}
	status, ok := b.targetStatus(target)
	if !ok {
		return Move{}, ErrUnknownCard
	}

	id := b.dragging
	from := b.snapshot[id].Status

	column := b.column(status, id)
	index := len(column)
	switch {
	case target.TaskID == id && status == from:
		// Dropped on itself: keep the original position.
		orig := b.snapshot[id]
		index = 0
		for _, c := range column {
			if c.Order < orig.Order || (c.Order == orig.Order && c.ID < orig.ID) {
				index++
			}
		}
	case target.TaskID != 0 && target.TaskID != id:
		for i, c := range column {
			if c.ID == target.TaskID {
				index = i
				break
			}
		}
	}

	dragged := b.cards[b.find(id)]
	dragged.Status = status
	column = append(column, Card{})
	copy(column[index+1:], column[index:])
	column[index] = dragged

	move := Move{
		TaskID:     id,
		FromStatus: from,
		Status:     status,
		Order:      index,
		Columns:    map[models.TaskStatus][]uint64{},
	}

	b.renumber(status, column, &move)
	if from != status {
		b.renumber(from, b.column(from, id), &move)
	}

	for _, c := range b.cards {
		if before := b.snapshot[c.ID]; before != c {
			move.Changed = append(move.Changed, c)
		}
	}
	sort.Slice(move.Changed, func(i, j int) bool { return move.Changed[i].ID < move.Changed[j].ID })

	b.dragging = 0
	b.snapshot = nil
	return move, nil
}

// Cancel abandons the drag and restores the board.
func (b *Board) Cancel() {
	if b.dragging == 0 {
		return
	}
	for i, c := range b.cards {
		b.cards[i] = b.snapshot[c.ID]
	}
	b.dragging = 0
	b.snapshot = nil
}

func (b *Board) renumber(status models.TaskStatus, column []Card, move *Move) {
	ids := make([]uint64, len(column))
	for order, c := range column {
		i := b.find(c.ID)
		b.cards[i].Status = status
		b.cards[i].Order = order
		ids[order] = c.ID
	}
	move.Columns[status] = ids
}

// column returns the cards in status sorted by order, leaving out skip.
func (b *Board) column(status models.TaskStatus, skip uint64) []Card {
	var out []Card
	for _, c := range b.cards {
		if c.Status == status && c.ID != skip {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (b *Board) targetStatus(target Target) (models.TaskStatus, bool) {
	if target.TaskID != 0 {
		i := b.find(target.TaskID)
		if i < 0 {
			return "", false
		}
		if target.TaskID != b.dragging {
			return b.cards[i].Status, true
		}
		if target.Status == "" {
			return b.snapshot[target.TaskID].Status, true
		}
	}
	return target.Status, target.Status.Valid()
}

func (b *Board) find(id uint64) int {
	for i, c := range b.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
