package mrp

import (
	"time"

	"github.com/shopspring/decimal"

	"aps-backend/internal/storage"
)

// Input is a stable snapshot: the projector never reads live store state,
// so it may run while the schedule is being edited.
type Input struct {
	Schedule  map[string][]storage.Task
	BOMs      storage.BOMTable
	Materials []*storage.Material
	Horizon   int // days, starting today
	Today     time.Time
}

type ProjectionPoint struct {
	MaterialID string          `json:"material_id"`
	Date       time.Time       `json:"date"`
	Projected  decimal.Decimal `json:"projected"`
}

type Shortage struct {
	MaterialID string          `json:"material_id"`
	Date       time.Time       `json:"date"`
	Deficit    decimal.Decimal `json:"deficit"`
}

type Suggestion struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderDate  time.Time       `json:"order_date"`
	Unit       string          `json:"unit"`
}

type Result struct {
	Points    []ProjectionPoint `json:"points"`
	Shortages []Shortage        `json:"shortages"`
}

// Project walks the horizon day by day. Each material's projected level is
// a running subtraction seeded from current stock; day N depends on day
// N-1. Whenever the projection drops below safety stock a shortage is
// recorded with deficit = safety - projected (not clamped).
func Project(in Input) Result {
	demand := dailyDemand(in)

	var result Result
	for _, m := range in.Materials {
		projected := m.CurrentStock
		for day := 0; day < in.Horizon; day++ {
			date := dayDate(in.Today, day)
			projected = projected.Sub(demand[day][m.ID])

			result.Points = append(result.Points, ProjectionPoint{
				MaterialID: m.ID,
				Date:       date,
				Projected:  projected,
			})

			if projected.LessThan(m.SafetyStock) {
				result.Shortages = append(result.Shortages, Shortage{
					MaterialID: m.ID,
					Date:       date,
					Deficit:    m.SafetyStock.Sub(projected),
				})
			}
		}
	}

	return result
}

// SuggestPurchase derives the purchase advice for one selected shortage.
// The quantity covers safety stock plus demand over the whole horizon, not
// just up to the shortage date: deliberately conservative over-ordering.
// The order date is shortage minus lead time and may lie in the past; the
// caller decides what that means.
func SuggestPurchase(in Input, m *storage.Material, shortageDate time.Time) Suggestion {
	total := decimal.Zero
	for _, perDay := range dailyDemand(in) {
		total = total.Add(perDay[m.ID])
	}

	qty := m.SafetyStock.Add(total).Sub(m.CurrentStock).Sub(m.OnOrder)
	if qty.IsNegative() {
		qty = decimal.Zero
	}

	return Suggestion{
		MaterialID: m.ID,
		Quantity:   qty,
		OrderDate:  shortageDate.AddDate(0, 0, -m.LeadTimeDays),
		Unit:       m.Unit,
	}
}

// dailyDemand aggregates, per horizon day, the material consumption implied
// by every scheduled task: bom[product][material] x order quantity on the
// task's start day (start hour / 24).
func dailyDemand(in Input) []map[string]decimal.Decimal {
	out := make([]map[string]decimal.Decimal, in.Horizon)
	for i := range out {
		out[i] = make(map[string]decimal.Decimal)
	}

	for _, timeline := range in.Schedule {
		for _, task := range timeline {
			day := task.Start / 24
			if day < 0 || day >= in.Horizon {
				continue
			}
			bom, ok := in.BOMs[task.Order.Product]
			if !ok {
				continue
			}
			qty := decimal.NewFromInt(int64(task.Order.Quantity))
			for matID, perUnit := range bom {
				out[day][matID] = out[day][matID].Add(perUnit.Mul(qty))
			}
		}
	}

	return out
}

func dayDate(today time.Time, offset int) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, offset)
}
