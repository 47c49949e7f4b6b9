package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aps-backend/internal/storage"
)

var scoreToday = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func scoreOrder(tier string, dueInDays, quantity int) storage.Order {
	return storage.Order{
		OrderNum:     "ORD-001",
		Product:      "5mm drip tape",
		Quantity:     quantity,
		DueDate:      scoreToday.AddDate(0, 0, dueInDays),
		CustomerTier: tier,
	}
}

func TestScore_Bounds(t *testing.T) {
	cases := []struct {
		name     string
		order    storage.Order
		expected int
	}{
		{"urgent A order", scoreOrder(storage.TierA, 2, 5000), 85},
		{"far B order", scoreOrder(storage.TierB, 10, 8000), 28},
		{"mid C order", scoreOrder(storage.TierC, 5, 12000), 42},
		{"huge quantity clamps at 100", scoreOrder(storage.TierA, 0, 500000), 100},
		{"overdue treated as due today", scoreOrder(storage.TierC, -4, 1000), 56},
		{"unknown tier scores zero weight", scoreOrder("X", 10, 0), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.order, scoreToday)
			assert.Equal(t, tc.expected, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

// Improving the tier while holding everything else fixed never lowers the
// score.
func TestScore_TierMonotonic(t *testing.T) {
	for _, due := range []int{0, 3, 7, 15} {
		for _, qty := range []int{100, 5000, 20000} {
			a := Score(scoreOrder(storage.TierA, due, qty), scoreToday)
			b := Score(scoreOrder(storage.TierB, due, qty), scoreToday)
			c := Score(scoreOrder(storage.TierC, due, qty), scoreToday)

			assert.GreaterOrEqual(t, a, b, "A >= B for due=%d qty=%d", due, qty)
			assert.GreaterOrEqual(t, b, c, "B >= C for due=%d qty=%d", due, qty)
		}
	}
}

// Due dates come in as UTC midnights while the clock runs in the server
// zone; the day count must follow calendar dates, not wall-clock deltas.
func TestScore_CrossZoneDayCount(t *testing.T) {
	west := time.FixedZone("UTC-8", -8*3600)
	today := time.Date(2026, 8, 30, 20, 0, 0, 0, west)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	order := storage.Order{
		OrderNum:     "ORD-001",
		Product:      "5mm drip tape",
		Quantity:     1000,
		DueDate:      due,
		CustomerTier: storage.TierC,
	}

	// two calendar days out: 50 - 2*5 + 5 + 1000/1000
	assert.Equal(t, 46, Score(order, today))
}

func TestScore_RecomputeOnChange(t *testing.T) {
	order := scoreOrder(storage.TierB, 8, 5000)
	before := Score(order, scoreToday)

	order.DueDate = scoreToday.AddDate(0, 0, 2)
	after := Score(order, scoreToday)

	assert.Greater(t, after, before)
}
