package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aps-backend/internal/events"
	"aps-backend/internal/storage"
)

const testHorizonHours = 7 * 24

func newTestEditor() (*Editor, *ScheduleStore, *events.Log) {
	store := NewScheduleStore()
	log := events.NewLog()
	return NewEditor(store, testHorizonHours, log), store, log
}

func TestEditor_Quantize(t *testing.T) {
	e, _, _ := newTestEditor()

	cases := []struct {
		name     string
		raw      float64
		duration int
		expected int
	}{
		{"snaps down", 3.4, 2, 3},
		{"snaps up", 3.6, 2, 4},
		{"clamps below zero", -7.2, 2, 0},
		{"clamps to horizon end", 500, 4, testHorizonHours - 4},
		{"exact hour untouched", 12, 2, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.Quantize(tc.raw, tc.duration))
		})
	}
}

func TestEditor_PlacementAcceptedEmitsEvent(t *testing.T) {
	e, store, log := newTestEditor()

	task, err := e.ProposePlacement(testOrder("WO-001", "5mm drip tape"), "line-a", 1.3, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, task.Start)
	assert.Equal(t, 7, task.End)
	assert.Len(t, store.TasksFor("line-a"), 1)

	all := log.All()
	require.Len(t, all, 1)
	assert.Equal(t, events.TaskPlaced, all[0].Type)
	assert.Equal(t, "WO-001", all[0].OrderNum)
	assert.Equal(t, 1, all[0].Start)
}

// A rejected proposal leaves no trace: no task, no event, no status change
// for the caller to undo.
func TestEditor_ConflictRollsBack(t *testing.T) {
	e, store, log := newTestEditor()

	_, err := e.ProposePlacement(testOrder("WO-001", "5mm drip tape"), "line-a", 0, 6)
	require.NoError(t, err)

	_, err = e.ProposePlacement(testOrder("WO-002", "5mm drip tape"), "line-a", 4.2, 6)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)

	assert.Len(t, store.TasksFor("line-a"), 1, "first placement intact")
	assert.Equal(t, 1, log.Len(), "no event for the rejected proposal")
}

func TestEditor_AlreadyScheduledRejected(t *testing.T) {
	e, _, _ := newTestEditor()

	order := testOrder("WO-001", "5mm drip tape")
	order.Status = storage.StatusScheduled

	_, err := e.ProposePlacement(order, "line-a", 0, 6)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

// Re-proposing the committed slot is a no-op: same task back, no mutation,
// no event.
func TestEditor_IdempotentMove(t *testing.T) {
	e, store, log := newTestEditor()

	task, err := e.ProposePlacement(testOrder("WO-001", "5mm drip tape"), "line-a", 8, 6)
	require.NoError(t, err)
	require.Equal(t, 1, log.Len())

	same, err := e.ProposeMove(task.ID, "line-a", 8.2)
	require.NoError(t, err)

	assert.Equal(t, task, same)
	assert.Equal(t, 1, log.Len(), "no event for a no-op proposal")
	assert.Len(t, store.TasksFor("line-a"), 1)
}

func TestEditor_MoveAcrossResources(t *testing.T) {
	e, store, log := newTestEditor()

	task, err := e.ProposePlacement(testOrder("WO-001", "5mm drip tape"), "line-a", 0, 6)
	require.NoError(t, err)

	moved, err := e.ProposeMove(task.ID, "line-b", 10.7)
	require.NoError(t, err)

	assert.Equal(t, "line-b", moved.Resource)
	assert.Equal(t, 11, moved.Start)
	assert.Empty(t, store.TasksFor("line-a"))
	assert.Len(t, store.TasksFor("line-b"), 1)

	all := log.All()
	require.Len(t, all, 2)
	assert.Equal(t, events.TaskMoved, all[1].Type)
}

func TestEditor_MoveUnknownTask(t *testing.T) {
	e, _, _ := newTestEditor()

	_, err := e.ProposeMove("no-such-task", "line-a", 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
