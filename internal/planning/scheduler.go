package planning

import (
	"sort"

	"aps-backend/internal/storage"
)

const ReasonNoCapableResource = "no line supports the required spec"

type SchedulerConfig struct {
	// SetupTime in hours, charged when the preceding task on the chosen
	// line required a different spec.
	SetupTime   int
	DefaultRate int
}

type Assignment struct {
	Order storage.Order `json:"order"`
	Task  storage.Task  `json:"task"`
}

type Infeasible struct {
	Order  storage.Order `json:"order"`
	Reason string        `json:"reason"`
}

type ScheduleResult struct {
	Assigned   []Assignment `json:"assigned"`
	Infeasible []Infeasible `json:"infeasible"`
}

// RunHeuristic assigns pending orders to resources greedily. Orders are
// taken in descending priority (stable, so intake order breaks ties); for
// each order every capable line is probed for its earliest start — the end
// of its last task plus setup time if the spec changes — and the line with
// the strictly earliest start wins, declaration order breaking ties. Each
// placement is committed to the store before the next order is considered,
// so later decisions see earlier ones. Orders with no capable line are
// reported, not failed.
func RunHeuristic(orders []storage.Order, resources []storage.Resource, store *ScheduleStore, cfg SchedulerConfig) ScheduleResult {
	backlog := make([]storage.Order, len(orders))
	copy(backlog, orders)
	sort.SliceStable(backlog, func(i, j int) bool {
		return backlog[i].Priority > backlog[j].Priority
	})

	var result ScheduleResult

	for _, order := range backlog {
		requiredSpec := SpecFromProduct(order.Product)

		bestIdx := -1
		bestStart := 0
		for i, res := range resources {
			if !res.Supports(requiredSpec) {
				continue
			}

			start := 0
			if last, ok := store.Last(res.ID); ok {
				start = last.End
				if SpecFromProduct(last.Order.Product) != requiredSpec {
					start += cfg.SetupTime
				}
			}

			if bestIdx == -1 || start < bestStart {
				bestIdx = i
				bestStart = start
			}
		}

		if bestIdx == -1 {
			result.Infeasible = append(result.Infeasible, Infeasible{Order: order, Reason: ReasonNoCapableResource})
			continue
		}

		res := resources[bestIdx]
		duration := DurationFor(order.Quantity, res, cfg.DefaultRate)

		task, err := store.Place(res.ID, order, bestStart, duration)
		if err != nil {
			// One order failing must not abort the rest of the backlog.
			result.Infeasible = append(result.Infeasible, Infeasible{Order: order, Reason: err.Error()})
			continue
		}

		result.Assigned = append(result.Assigned, Assignment{Order: order, Task: task})
	}

	return result
}

// DurationFor is ceil(quantity / rate) whole hours, at least one.
func DurationFor(quantity int, res storage.Resource, defaultRate int) int {
	rate := res.RatePerHour
	if rate <= 0 {
		rate = defaultRate
	}
	d := (quantity + rate - 1) / rate
	if d < 1 {
		d = 1
	}
	return d
}
