package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"aps-backend/internal/config"
	"aps-backend/internal/events"
	"aps-backend/internal/mrp"
	"aps-backend/internal/planning"
	"aps-backend/internal/refdata"
	"aps-backend/internal/storage"
)

type PlanningStorage interface {
	GetOrders(ctx context.Context, status string) ([]*storage.Order, error)
	GetOrder(ctx context.Context, id int) (*storage.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status string) error
	DeleteOrder(ctx context.Context, id int) error
	GetMaterials(ctx context.Context) ([]*storage.Material, error)
	AddOnOrder(ctx context.Context, id string, qty decimal.Decimal) error
}

// PlanningService owns the scheduling state. The mutex makes a bulk
// heuristic pass exclusive against interactive editor commands; the store
// has its own lock for individual writes, this one spans whole operations.
type PlanningService struct {
	mu      sync.Mutex
	storage PlanningStorage
	tables  *refdata.Tables
	store   *planning.ScheduleStore
	editor  *planning.Editor
	log     *events.Log
	cfg     config.Scheduling
	now     func() time.Time
}

func NewPlanningService(st PlanningStorage, tables *refdata.Tables, cfg config.Scheduling, log *events.Log) *PlanningService {
	store := planning.NewScheduleStore()
	return &PlanningService{
		storage: st,
		tables:  tables,
		store:   store,
		editor:  planning.NewEditor(store, cfg.HorizonDays*24, log),
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// BulkSchedule runs the heuristic pass over every ready order. Each
// successfully placed order transitions to scheduled in storage; a status
// write that fails undoes that order's placement and reports it, without
// touching the rest of the batch.
func (s *PlanningService) BulkSchedule(ctx context.Context) (planning.ScheduleResult, error) {
	const op = "service.planning.BulkSchedule"

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.storage.GetOrders(ctx, storage.StatusReady)
	if err != nil {
		return planning.ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	orders := make([]storage.Order, 0, len(pending))
	for _, o := range pending {
		orders = append(orders, *o)
	}

	result := planning.RunHeuristic(orders, s.tables.Resources, s.store, planning.SchedulerConfig{
		SetupTime:   s.cfg.SetupTimeHours,
		DefaultRate: s.cfg.DefaultRate,
	})

	committed := result.Assigned[:0]
	for _, a := range result.Assigned {
		if err := s.storage.UpdateOrderStatus(ctx, a.Order.ID, storage.StatusScheduled); err != nil {
			s.store.Remove(a.Task.ID)
			result.Infeasible = append(result.Infeasible, planning.Infeasible{
				Order:  a.Order,
				Reason: fmt.Sprintf("status update failed: %v", err),
			})
			continue
		}
		s.log.Append(events.Event{
			Type:     events.TaskPlaced,
			OrderNum: a.Order.OrderNum,
			Resource: a.Task.Resource,
			Start:    a.Task.Start,
		})
		committed = append(committed, a)
	}
	result.Assigned = committed

	return result, nil
}

// RequestPlace is the interactive path: schedule one order at a raw grid
// coordinate. Either the placement and the status transition both happen,
// or neither does.
func (s *PlanningService) RequestPlace(ctx context.Context, orderID int, resourceID string, rawStart float64) (storage.Task, error) {
	const op = "service.planning.RequestPlace"

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.storage.GetOrder(ctx, orderID)
	if err != nil {
		return storage.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	res, ok := s.tables.Resource(resourceID)
	if !ok {
		return storage.Task{}, &planning.ValidationError{Field: "resource", Reason: "unknown resource " + resourceID}
	}

	duration := planning.DurationFor(order.Quantity, res, s.cfg.DefaultRate)

	task, err := s.editor.ProposePlacement(*order, resourceID, rawStart, duration)
	if err != nil {
		return storage.Task{}, err
	}

	if err := s.storage.UpdateOrderStatus(ctx, orderID, storage.StatusScheduled); err != nil {
		s.store.Remove(task.ID)
		return storage.Task{}, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (s *PlanningService) RequestMove(ctx context.Context, taskID, resourceID string, rawStart float64) (storage.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables.Resource(resourceID); !ok {
		return storage.Task{}, &planning.ValidationError{Field: "resource", Reason: "unknown resource " + resourceID}
	}

	return s.editor.ProposeMove(taskID, resourceID, rawStart)
}

// RequestRemove deletes a placement and reverts its order to ready.
func (s *PlanningService) RequestRemove(ctx context.Context, taskID string) error {
	const op = "service.planning.RequestRemove"

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.store.Remove(taskID)
	if !ok {
		return &planning.ValidationError{Field: "task_id", Reason: "unknown task " + taskID}
	}

	if err := s.storage.UpdateOrderStatus(ctx, task.Order.ID, storage.StatusReady); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Append(events.Event{
		Type:     events.TaskRemoved,
		OrderNum: task.Order.OrderNum,
		Resource: task.Resource,
		Start:    task.Start,
	})

	return nil
}

func (s *PlanningService) GetOrder(ctx context.Context, id int) (*storage.Order, error) {
	return s.storage.GetOrder(ctx, id)
}

// UpdateOrderStatus transitions an order's lifecycle status. A task exists
// only while its order is scheduled, so any transition out of scheduled
// (completed, cancelled) also drops the order's task from the timeline.
func (s *PlanningService) UpdateOrderStatus(ctx context.Context, id int, status string) error {
	const op = "service.planning.UpdateOrderStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.UpdateOrderStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if status != storage.StatusScheduled {
		s.dropTaskOf(id)
	}

	return nil
}

// DeleteOrder removes the order and, if it was scheduled, its task.
func (s *PlanningService) DeleteOrder(ctx context.Context, id int) error {
	const op = "service.planning.DeleteOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.dropTaskOf(id)

	return nil
}

// dropTaskOf removes the order's placement, if any. Caller holds s.mu.
func (s *PlanningService) dropTaskOf(orderID int) {
	task, ok := s.store.TaskOfOrder(orderID)
	if !ok {
		return
	}
	s.store.Remove(task.ID)
	s.log.Append(events.Event{
		Type:     events.TaskRemoved,
		OrderNum: task.Order.OrderNum,
		Resource: task.Resource,
		Start:    task.Start,
	})
}

// ScheduleFeed is the visualization feed: timelines per line plus the two
// order panels the workbench shows.
type ScheduleFeed struct {
	Resources []storage.Resource        `json:"resources"`
	Timelines map[string][]storage.Task `json:"timelines"`
	Pending   []*storage.Order          `json:"pending"`
	Scheduled []*storage.Order          `json:"scheduled"`
}

func (s *PlanningService) Feed(ctx context.Context) (*ScheduleFeed, error) {
	const op = "service.planning.Feed"

	var (
		pending   []*storage.Order
		scheduled []*storage.Order
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = s.storage.GetOrders(gCtx, storage.StatusReady)
		if err != nil {
			return fmt.Errorf("pending: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		scheduled, err = s.storage.GetOrders(gCtx, storage.StatusScheduled)
		if err != nil {
			return fmt.Errorf("scheduled: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Snapshot under the service lock: a bulk pass in flight may still roll
	// placements back, and the feed must never show those.
	s.mu.Lock()
	timelines := s.store.Snapshot()
	s.mu.Unlock()

	return &ScheduleFeed{
		Resources: s.tables.Resources,
		Timelines: timelines,
		Pending:   pending,
		Scheduled: scheduled,
	}, nil
}

func (s *PlanningService) Events() []events.Event {
	return s.log.All()
}

// RunProjection projects inventory over the horizon from a stable schedule
// snapshot, taken under the service lock so a half-committed bulk pass is
// never observed.
func (s *PlanningService) RunProjection(ctx context.Context) (mrp.Result, []*storage.Material, error) {
	const op = "service.planning.RunProjection"

	in, err := s.projectionInput(ctx)
	if err != nil {
		return mrp.Result{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	return mrp.Project(in), in.Materials, nil
}

// AcceptSuggestion validates that the named shortage actually exists in the
// current projection, then books the suggested quantity as on-order.
func (s *PlanningService) AcceptSuggestion(ctx context.Context, materialID string, shortageDate time.Time) (mrp.Suggestion, error) {
	const op = "service.planning.AcceptSuggestion"

	in, err := s.projectionInput(ctx)
	if err != nil {
		return mrp.Suggestion{}, fmt.Errorf("%s: %w", op, err)
	}

	var material *storage.Material
	for _, m := range in.Materials {
		if m.ID == materialID {
			material = m
			break
		}
	}
	if material == nil {
		return mrp.Suggestion{}, &planning.ValidationError{Field: "material_id", Reason: "unknown material " + materialID}
	}

	result := mrp.Project(in)
	found := false
	for _, sh := range result.Shortages {
		if sh.MaterialID == materialID && sameDay(sh.Date, shortageDate) {
			found = true
			break
		}
	}
	if !found {
		return mrp.Suggestion{}, &planning.ValidationError{Field: "date", Reason: "no shortage for material " + materialID + " on that date"}
	}

	suggestion := mrp.SuggestPurchase(in, material, shortageDate)

	if suggestion.Quantity.IsPositive() {
		if err := s.storage.AddOnOrder(ctx, materialID, suggestion.Quantity); err != nil {
			return mrp.Suggestion{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return suggestion, nil
}

func (s *PlanningService) projectionInput(ctx context.Context) (mrp.Input, error) {
	materials, err := s.storage.GetMaterials(ctx)
	if err != nil {
		return mrp.Input{}, err
	}

	s.mu.Lock()
	schedule := s.store.Snapshot()
	s.mu.Unlock()

	return mrp.Input{
		Schedule:  schedule,
		BOMs:      s.tables.BOMs,
		Materials: materials,
		Horizon:   s.cfg.HorizonDays,
		Today:     s.now(),
	}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
