package planning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aps-backend/internal/storage"
)

func testOrder(num, product string) storage.Order {
	return storage.Order{OrderNum: num, Product: product, Quantity: 5000, CustomerTier: storage.TierA, Status: storage.StatusReady}
}

func TestStore_PlaceRejectsOverlap(t *testing.T) {
	s := NewScheduleStore()

	first, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, first.End)

	// [3,8) overlaps [0,5)
	_, err = s.Place("line-a", testOrder("ORD-002", "5mm drip tape"), 3, 5)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, first.ID, cerr.TaskID)

	// Touching intervals are fine: [5,10) after [0,5).
	_, err = s.Place("line-a", testOrder("ORD-003", "5mm drip tape"), 5, 5)
	assert.NoError(t, err)

	// Other resources are independent timelines.
	_, err = s.Place("line-b", testOrder("ORD-004", "5mm drip tape"), 3, 5)
	assert.NoError(t, err)
}

func TestStore_PlaceValidation(t *testing.T) {
	s := NewScheduleStore()

	var verr *ValidationError

	_, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), -1, 5)
	assert.ErrorAs(t, err, &verr)

	_, err = s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 0, 0)
	assert.ErrorAs(t, err, &verr)
}

func TestStore_MoveIsAtomic(t *testing.T) {
	s := NewScheduleStore()

	blocker, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 0, 5)
	require.NoError(t, err)
	mover, err := s.Place("line-b", testOrder("ORD-002", "5mm drip tape"), 2, 4)
	require.NoError(t, err)

	// Conflicting move: nothing may change.
	_, err = s.Move(mover.ID, "line-a", 1)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)

	unchanged, ok := s.Task(mover.ID)
	require.True(t, ok)
	assert.Equal(t, "line-b", unchanged.Resource)
	assert.Equal(t, 2, unchanged.Start)
	assert.Len(t, s.TasksFor("line-a"), 1)
	assert.Equal(t, blocker.ID, s.TasksFor("line-a")[0].ID)

	// A move excludes the task itself from the overlap test.
	shifted, err := s.Move(mover.ID, "line-b", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, shifted.Start)
	assert.Equal(t, 7, shifted.End)
}

// Moving a task away and back restores the original placement exactly.
func TestStore_MoveRoundTrip(t *testing.T) {
	s := NewScheduleStore()

	task, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 4, 6)
	require.NoError(t, err)

	_, err = s.Move(task.ID, "line-b", 12)
	require.NoError(t, err)

	back, err := s.Move(task.ID, "line-a", 4)
	require.NoError(t, err)

	assert.Equal(t, task.ID, back.ID)
	assert.Equal(t, task.Resource, back.Resource)
	assert.Equal(t, task.Start, back.Start)
	assert.Equal(t, task.End, back.End)
	assert.Empty(t, s.TasksFor("line-b"))
}

func TestStore_RemoveAndTasksForOrder(t *testing.T) {
	s := NewScheduleStore()

	late, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 10, 2)
	require.NoError(t, err)
	early, err := s.Place("line-a", testOrder("ORD-002", "5mm drip tape"), 0, 2)
	require.NoError(t, err)

	tasks := s.TasksFor("line-a")
	require.Len(t, tasks, 2)
	assert.Equal(t, early.ID, tasks[0].ID, "timeline ordered by start")
	assert.Equal(t, late.ID, tasks[1].ID)

	removed, ok := s.Remove(late.ID)
	require.True(t, ok)
	assert.Equal(t, "ORD-001", removed.Order.OrderNum)
	assert.Len(t, s.TasksFor("line-a"), 1)

	_, ok = s.Remove(late.ID)
	assert.False(t, ok)
}

// Two writers racing for the same interval: exactly one placement wins, the
// other gets a conflict and the timeline stays consistent.
func TestStore_ConcurrentPlacement(t *testing.T) {
	s := NewScheduleStore()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Place("line-a", testOrder("ORD-00"+string(rune('1'+i)), "5mm drip tape"), 0, 5)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var cerr *ConflictError
		assert.ErrorAs(t, err, &cerr)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, s.TasksFor("line-a"), 1)
}

func TestStore_SnapshotIsStable(t *testing.T) {
	s := NewScheduleStore()

	_, err := s.Place("line-a", testOrder("ORD-001", "5mm drip tape"), 0, 5)
	require.NoError(t, err)

	snap := s.Snapshot()

	_, err = s.Place("line-a", testOrder("ORD-002", "5mm drip tape"), 5, 5)
	require.NoError(t, err)

	assert.Len(t, snap["line-a"], 1, "snapshot must not see later writes")
	assert.Len(t, s.TasksFor("line-a"), 2)
}
