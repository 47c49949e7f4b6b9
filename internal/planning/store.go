package planning

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"aps-backend/internal/storage"
)

// ScheduleStore is the single source of truth for task placements. Every
// write goes through one mutex and re-checks the non-overlap invariant for
// the touched timeline, so a rejected write leaves the store untouched.
type ScheduleStore struct {
	mu        sync.Mutex
	timelines map[string][]storage.Task // per resource, sorted by Start
	resOf     map[string]string         // task id -> resource id
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		timelines: make(map[string][]storage.Task),
		resOf:     make(map[string]string),
	}
}

// Place appends a new task for the order on the resource timeline. The
// interval [start, start+duration) must not overlap any existing task on
// the same resource, otherwise *ConflictError and no mutation.
func (s *ScheduleStore) Place(resourceID string, order storage.Order, start, duration int) (storage.Task, error) {
	if start < 0 {
		return storage.Task{}, &ValidationError{Field: "start", Reason: "negative start offset"}
	}
	if duration <= 0 {
		return storage.Task{}, &ValidationError{Field: "duration", Reason: "duration must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if other, ok := s.overlaps(resourceID, start, start+duration, ""); ok {
		return storage.Task{}, &ConflictError{Resource: resourceID, Start: start, End: start + duration, TaskID: other}
	}

	task := storage.Task{
		ID:       uuid.NewString(),
		Order:    order,
		Resource: resourceID,
		Start:    start,
		Duration: duration,
		End:      start + duration,
	}
	s.insert(task)

	return task, nil
}

// Move relocates an existing task, atomically: the overlap check excludes
// the task itself, and on conflict nothing changes.
func (s *ScheduleStore) Move(taskID, resourceID string, start int) (storage.Task, error) {
	if start < 0 {
		return storage.Task{}, &ValidationError{Field: "start", Reason: "negative start offset"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.find(taskID)
	if !ok {
		return storage.Task{}, &ValidationError{Field: "task_id", Reason: "unknown task " + taskID}
	}

	if other, okc := s.overlaps(resourceID, start, start+task.Duration, taskID); okc {
		return storage.Task{}, &ConflictError{Resource: resourceID, Start: start, End: start + task.Duration, TaskID: other}
	}

	s.delete(task)
	task.Resource = resourceID
	task.Start = start
	task.End = start + task.Duration
	s.insert(task)

	return task, nil
}

// Remove deletes a task; the second return is false when the id is unknown.
func (s *ScheduleStore) Remove(taskID string) (storage.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.find(taskID)
	if !ok {
		return storage.Task{}, false
	}
	s.delete(task)
	return task, true
}

// Task returns a task by id.
func (s *ScheduleStore) Task(taskID string) (storage.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(taskID)
}

// TaskOfOrder finds the placement of an order, if it has one. An order has
// at most one task.
func (s *ScheduleStore) TaskOfOrder(orderID int) (storage.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tl := range s.timelines {
		for _, t := range tl {
			if t.Order.ID == orderID {
				return t, true
			}
		}
	}
	return storage.Task{}, false
}

// TasksFor returns the resource timeline ordered by start time.
func (s *ScheduleStore) TasksFor(resourceID string) []storage.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.timelines[resourceID]
	out := make([]storage.Task, len(tl))
	copy(out, tl)
	return out
}

// Last returns the latest-ending task on the resource.
func (s *ScheduleStore) Last(resourceID string) (storage.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.timelines[resourceID]
	if len(tl) == 0 {
		return storage.Task{}, false
	}
	return tl[len(tl)-1], true
}

// Snapshot returns a stable copy of all timelines, so readers never observe
// a partially committed bulk pass.
func (s *ScheduleStore) Snapshot() map[string][]storage.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]storage.Task, len(s.timelines))
	for res, tl := range s.timelines {
		cp := make([]storage.Task, len(tl))
		copy(cp, tl)
		out[res] = cp
	}
	return out
}

// overlaps reports a task on the resource whose [Start,End) intersects
// [start,end), ignoring excludeID. Half-open test: new.start < other.end
// && other.start < new.end.
func (s *ScheduleStore) overlaps(resourceID string, start, end int, excludeID string) (string, bool) {
	for _, t := range s.timelines[resourceID] {
		if t.ID == excludeID {
			continue
		}
		if start < t.End && t.Start < end {
			return t.ID, true
		}
	}
	return "", false
}

func (s *ScheduleStore) insert(task storage.Task) {
	tl := append(s.timelines[task.Resource], task)
	sort.Slice(tl, func(i, j int) bool { return tl[i].Start < tl[j].Start })
	s.timelines[task.Resource] = tl
	s.resOf[task.ID] = task.Resource
}

func (s *ScheduleStore) delete(task storage.Task) {
	tl := s.timelines[task.Resource]
	for i, t := range tl {
		if t.ID == task.ID {
			s.timelines[task.Resource] = append(tl[:i], tl[i+1:]...)
			break
		}
	}
	delete(s.resOf, task.ID)
}

func (s *ScheduleStore) find(taskID string) (storage.Task, bool) {
	res, ok := s.resOf[taskID]
	if !ok {
		return storage.Task{}, false
	}
	for _, t := range s.timelines[res] {
		if t.ID == taskID {
			return t, true
		}
	}
	return storage.Task{}, false
}
