package storage

import (
	"time"
)

const (
	StatusNew       = "new"
	StatusApproved  = "approved"
	StatusReady     = "ready"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

type Order struct {
	ID           int       `json:"id"`
	OrderNum     string    `json:"order_num"`
	Product      string    `json:"product"`
	Quantity     int       `json:"quantity"`
	DueDate      time.Time `json:"due_date"`
	CustomerTier string    `json:"customer_tier"`
	Status       string    `json:"status"`
	Priority     int       `json:"priority"`
}

// statusRank orders the lifecycle; transitions only go forward except the
// two manual reversions handled in ValidTransition.
var statusRank = map[string]int{
	StatusNew:       0,
	StatusApproved:  1,
	StatusReady:     2,
	StatusScheduled: 3,
	StatusCompleted: 4,
	StatusCancelled: 5,
}

func KnownStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

func KnownTier(t string) bool {
	return t == TierA || t == TierB || t == TierC
}

// ValidTransition reports whether an order may go from one lifecycle status
// to another. Forward moves are allowed one step at a time; cancellation is
// allowed from any non-terminal status; the only reversions are
// approved -> new and ready -> approved.
func ValidTransition(from, to string) bool {
	if !KnownStatus(from) || !KnownStatus(to) || from == to {
		return false
	}
	if from == StatusCompleted || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	if from == StatusApproved && to == StatusNew {
		return true
	}
	if from == StatusReady && to == StatusApproved {
		return true
	}
	return statusRank[to] == statusRank[from]+1
}
