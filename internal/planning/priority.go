package planning

import (
	"time"

	"aps-backend/internal/storage"
)

var tierWeight = map[string]float64{
	storage.TierA: 40,
	storage.TierB: 20,
	storage.TierC: 5,
}

// Score computes the order priority in [0,100]: an urgency part that grows
// as the due date approaches (50 minus 5 per remaining day, floored at 0),
// the customer tier weight, and quantity/1000. Pure; recomputed whenever
// due date, tier or quantity change.
func Score(o storage.Order, today time.Time) int {
	daysLeft := daysBetween(today, o.DueDate)
	if daysLeft < 0 {
		daysLeft = 0
	}

	score := float64(50 - daysLeft*5)
	if score < 0 {
		score = 0
	}

	score += tierWeight[o.CustomerTier]
	score += float64(o.Quantity) / 1000.0

	if score > 100 {
		score = 100
	}
	return int(score)
}

// daysBetween counts calendar days. Both sides are rebuilt from their date
// components in UTC: due dates arrive as UTC midnights while now() carries
// the server zone, and subtracting across zones would skew the count.
func daysBetween(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	return int(to.Sub(from).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
