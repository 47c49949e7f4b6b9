package planning

import (
	"math"

	"aps-backend/internal/events"
	"aps-backend/internal/storage"
)

// Editor validates ad hoc placements coming from the drag-and-drop surface.
// Raw coordinates are snapped to the hour grid and clamped to the horizon
// before the store is asked; a store conflict discards the proposal whole.
type Editor struct {
	store        *ScheduleStore
	horizonHours int
	log          *events.Log
}

func NewEditor(store *ScheduleStore, horizonHours int, log *events.Log) *Editor {
	return &Editor{store: store, horizonHours: horizonHours, log: log}
}

// Quantize snaps a raw start coordinate to the nearest whole hour, clamped
// to [0, horizon-duration].
func (e *Editor) Quantize(raw float64, duration int) int {
	start := int(math.Round(raw))
	if start < 0 {
		start = 0
	}
	if max := e.horizonHours - duration; start > max && max >= 0 {
		start = max
	}
	return start
}

// ProposePlacement schedules an unscheduled order at the requested slot.
// On acceptance a placed event is emitted; on rejection the order status is
// untouched and the caller gets the typed reason.
func (e *Editor) ProposePlacement(order storage.Order, resourceID string, rawStart float64, duration int) (storage.Task, error) {
	if order.Status == storage.StatusScheduled {
		return storage.Task{}, &ValidationError{Field: "order", Reason: "order " + order.OrderNum + " is already scheduled"}
	}

	start := e.Quantize(rawStart, duration)

	task, err := e.store.Place(resourceID, order, start, duration)
	if err != nil {
		return storage.Task{}, err
	}

	e.log.Append(events.Event{
		Type:     events.TaskPlaced,
		OrderNum: order.OrderNum,
		Resource: resourceID,
		Start:    start,
	})

	return task, nil
}

// ProposeMove relocates a committed task. Re-proposing the committed slot
// is a no-op: no mutation, no event.
func (e *Editor) ProposeMove(taskID, resourceID string, rawStart float64) (storage.Task, error) {
	task, ok := e.store.Task(taskID)
	if !ok {
		return storage.Task{}, &ValidationError{Field: "task_id", Reason: "unknown task " + taskID}
	}

	start := e.Quantize(rawStart, task.Duration)
	if task.Resource == resourceID && task.Start == start {
		return task, nil
	}

	moved, err := e.store.Move(taskID, resourceID, start)
	if err != nil {
		return storage.Task{}, err
	}

	e.log.Append(events.Event{
		Type:     events.TaskMoved,
		OrderNum: moved.Order.OrderNum,
		Resource: resourceID,
		Start:    start,
	})

	return moved, nil
}
