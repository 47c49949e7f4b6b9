package mrp

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aps-backend/internal/storage"
)

var projToday = time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func material(id string, stock, safety, onOrder float64, leadTime int) *storage.Material {
	return &storage.Material{
		ID:           id,
		Name:         id,
		CurrentStock: decimal.NewFromFloat(stock),
		SafetyStock:  decimal.NewFromFloat(safety),
		OnOrder:      decimal.NewFromFloat(onOrder),
		LeadTimeDays: leadTime,
		Unit:         "kg",
	}
}

func taskOnDay(orderNum, product string, quantity, dayOffset int) storage.Task {
	return storage.Task{
		ID:       orderNum + "-task",
		Order:    storage.Order{OrderNum: orderNum, Product: product, Quantity: quantity, Status: storage.StatusScheduled},
		Resource: "line-a",
		Start:    dayOffset * 24,
		Duration: 5,
		End:      dayOffset*24 + 5,
	}
}

// 500 in stock, safety 300, 250 consumed on day 2: the projection crosses
// the safety line on day 2 with a deficit of 50.
func TestProject_ShortageBelowSafetyStock(t *testing.T) {
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {taskOnDay("ORD-001", "5mm drip tape", 5000, 2)},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.05)},
		},
		Materials: []*storage.Material{material("M1", 500, 300, 0, 5)},
		Horizon:   7,
		Today:     projToday,
	}

	result := Project(in)

	require.Len(t, result.Points, 7)
	assert.True(t, result.Points[0].Projected.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Points[1].Projected.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Points[2].Projected.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, day(2), result.Points[2].Date)

	// Below safety from day 2 to the end of the horizon.
	require.Len(t, result.Shortages, 5)
	first := result.Shortages[0]
	assert.Equal(t, "M1", first.MaterialID)
	assert.Equal(t, day(2), first.Date)
	assert.True(t, first.Deficit.Equal(decimal.NewFromInt(50)), "deficit = 300 - 250")
}

func TestProject_NoShortageAboveSafety(t *testing.T) {
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {taskOnDay("ORD-001", "5mm drip tape", 1000, 1)},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.05)},
		},
		Materials: []*storage.Material{material("M1", 500, 300, 0, 5)},
		Horizon:   7,
		Today:     projToday,
	}

	result := Project(in)

	assert.Empty(t, result.Shortages)
	assert.True(t, result.Points[6].Projected.Equal(decimal.NewFromInt(450)))
}

// The running subtraction accumulates: two tasks on different days both
// reduce the later projection.
func TestProject_CumulativeDemand(t *testing.T) {
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {taskOnDay("ORD-001", "5mm drip tape", 2000, 1)},
			"line-b": {taskOnDay("ORD-002", "8mm drip tape", 3000, 3)},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.1)},
			"8mm drip tape": {"M1": decimal.NewFromFloat(0.2)},
		},
		Materials: []*storage.Material{material("M1", 1000, 100, 0, 3)},
		Horizon:   5,
		Today:     projToday,
	}

	result := Project(in)

	// day1: 1000 - 200 = 800; day3: 800 - 600 = 200.
	assert.True(t, result.Points[1].Projected.Equal(decimal.NewFromInt(800)))
	assert.True(t, result.Points[2].Projected.Equal(decimal.NewFromInt(800)))
	assert.True(t, result.Points[3].Projected.Equal(decimal.NewFromInt(200)))
}

// Tasks beyond the horizon or products without a BOM contribute nothing.
func TestProject_IgnoresOutOfScopeTasks(t *testing.T) {
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {
				taskOnDay("ORD-001", "5mm drip tape", 5000, 9),
				taskOnDay("ORD-002", "unlisted product", 5000, 1),
			},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.05)},
		},
		Materials: []*storage.Material{material("M1", 500, 300, 0, 5)},
		Horizon:   7,
		Today:     projToday,
	}

	result := Project(in)

	for _, p := range result.Points {
		assert.True(t, p.Projected.Equal(decimal.NewFromInt(500)))
	}
}

// Suggested quantity covers safety plus the whole horizon's demand, and the
// order date goes lead-time days before the shortage — even into the past.
func TestSuggestPurchase(t *testing.T) {
	m := material("M1", 500, 300, 0, 5)
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {taskOnDay("ORD-001", "5mm drip tape", 5000, 2)},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.05)},
		},
		Materials: []*storage.Material{m},
		Horizon:   7,
		Today:     projToday,
	}

	s := SuggestPurchase(in, m, day(2))

	// 300 + 250 - 500 - 0 = 50
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, day(-3), s.OrderDate, "shortage day 2 minus 5 days lead time")
	assert.Equal(t, "kg", s.Unit)
}

func TestSuggestPurchase_FlooredAtZero(t *testing.T) {
	m := material("M1", 500, 300, 600, 2)
	in := Input{
		Schedule: map[string][]storage.Task{
			"line-a": {taskOnDay("ORD-001", "5mm drip tape", 5000, 2)},
		},
		BOMs: storage.BOMTable{
			"5mm drip tape": {"M1": decimal.NewFromFloat(0.05)},
		},
		Materials: []*storage.Material{m},
		Horizon:   7,
		Today:     projToday,
	}

	s := SuggestPurchase(in, m, day(2))

	// 300 + 250 - 500 - 600 < 0 -> clamped
	assert.True(t, s.Quantity.IsZero())
}
