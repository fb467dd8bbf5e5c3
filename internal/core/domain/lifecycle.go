package domain

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// IsOverdue reports whether a non-closed order is past its predicted date at
// now. Closed orders are never overdue, whatever their dates say, and neither
// is an order without a predicted date.
func IsOverdue(o ServiceOrder, now time.Time) bool {
	if o.Status == StatusClosed || o.PredictedDate.IsZero() {
		return false
	}
	return now.After(o.PredictedDate.Time)
}

// DaysUntilDeadline returns the ceiling of (predicted_date - now) in whole
// days. A positive result is time remaining; zero or negative means the
// deadline has passed. It does not look at the status. An order without a
// predicted date has no deadline and yields 0.
func DaysUntilDeadline(o ServiceOrder, now time.Time) int {
	if o.PredictedDate.IsZero() {
		return 0
	}
	diff := o.PredictedDate.Sub(now)
	return int(math.Ceil(float64(diff) / float64(day)))
}

// OrderView pairs an order with its live derived state. The server's
// DaysDelay travels alongside, unreconciled.
type OrderView struct {
	ServiceOrder
	Overdue           bool `json:"overdue"`
	DaysUntilDeadline int  `json:"days_until_deadline"`
}

// ViewOf derives the live state of o at now.
func ViewOf(o ServiceOrder, now time.Time) OrderView {
	return OrderView{
		ServiceOrder:      o,
		Overdue:           IsOverdue(o, now),
		DaysUntilDeadline: DaysUntilDeadline(o, now),
	}
}

// ViewsOf derives the live state of every order in the batch.
func ViewsOf(orders []ServiceOrder, now time.Time) []OrderView {
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = ViewOf(o, now)
	}
	return views
}
