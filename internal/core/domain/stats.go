package domain

import (
	"math"
	"time"
)

// TrendWindowDays is the length of the trailing trend window, today included.
const TrendWindowDays = 30

// DashboardStats is the aggregate view of an order batch.
type DashboardStats struct {
	Total        int `json:"total"`
	Open         int `json:"open"`
	Closed       int `json:"closed"`
	Unresolved   int `json:"unresolved"`
	HighPriority int `json:"high_priority"`
	Overdue      int `json:"overdue"`
}

// ComputeStats aggregates a batch that the caller already fetched. Overdue is
// derived with IsOverdue and ignores the server's days_delay.
func ComputeStats(orders []ServiceOrder, now time.Time) DashboardStats {
	stats := DashboardStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusOpen:
			stats.Open++
		case StatusClosed:
			stats.Closed++
		case StatusUnresolved:
			stats.Unresolved++
		}
		if o.Priority == PriorityHigh {
			stats.HighPriority++
		}
		if IsOverdue(o, now) {
			stats.Overdue++
		}
	}
	return stats
}

// CategoryCount is one slice of a partition. Share is a percentage of the
// batch rounded to one decimal.
type CategoryCount struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// StatusBreakdown partitions the batch by status. Every status is present,
// with a zero count when no order carries it.
func StatusBreakdown(orders []ServiceOrder) []CategoryCount {
	counts := make(map[OrderStatus]int, len(Statuses))
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]CategoryCount, 0, len(Statuses))
	for _, s := range Statuses {
		out = append(out, category(string(s), counts[s], len(orders)))
	}
	return out
}

// PriorityBreakdown partitions the batch by priority, zero-filled.
func PriorityBreakdown(orders []ServiceOrder) []CategoryCount {
	counts := make(map[Priority]int, len(Priorities))
	for _, o := range orders {
		counts[o.Priority]++
	}
	out := make([]CategoryCount, 0, len(Priorities))
	for _, p := range Priorities {
		out = append(out, category(string(p), counts[p], len(orders)))
	}
	return out
}

func category(key string, count, total int) CategoryCount {
	denom := total
	if denom == 0 {
		denom = 1
	}
	share := float64(count) / float64(denom) * 100
	return CategoryCount{Key: key, Count: count, Share: math.Round(share*10) / 10}
}

// TrendBucket counts orders created and closed on one calendar day.
type TrendBucket struct {
	Date    Date `json:"date"`
	Created int  `json:"created"`
	Closed  int  `json:"closed"`
}

// TrendSeries buckets the batch over the TrendWindowDays days ending today
// (UTC), oldest first. An order counts as created on the date of CreatedAt
// and, when closed, as closed on the date of UpdatedAt. Dates outside the
// window are dropped.
func TrendSeries(orders []ServiceOrder, now time.Time) []TrendBucket {
	today := DateOf(now)
	first := today.AddDays(-(TrendWindowDays - 1))

	buckets := make([]TrendBucket, TrendWindowDays)
	for i := range buckets {
		buckets[i].Date = first.AddDays(i)
	}

	index := func(t time.Time) (int, bool) {
		if t.IsZero() {
			return 0, false
		}
		d := DateOf(t)
		i := int(d.Sub(first.Time) / day)
		if d.Before(first.Time) || i >= TrendWindowDays {
			return 0, false
		}
		return i, true
	}

	for _, o := range orders {
		if i, ok := index(o.CreatedAt); ok {
			buckets[i].Created++
		}
		if o.Status != StatusClosed {
			continue
		}
		if i, ok := index(o.UpdatedAt); ok {
			buckets[i].Closed++
		}
	}
	return buckets
}

// Dashboard bundles everything the overview page renders.
type Dashboard struct {
	Stats       DashboardStats  `json:"stats"`
	ServerCount int             `json:"server_count"`
	ByStatus    []CategoryCount `json:"by_status"`
	ByPriority  []CategoryCount `json:"by_priority"`
	Trend       []TrendBucket   `json:"trend"`
	Recent      []OrderView     `json:"recent"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// BuildDashboard derives the dashboard from a statistics batch and the most
// recent orders.
func BuildDashboard(batch OrderPage, recent []ServiceOrder, now time.Time) Dashboard {
	return Dashboard{
		Stats:       ComputeStats(batch.Results, now),
		ServerCount: batch.Count,
		ByStatus:    StatusBreakdown(batch.Results),
		ByPriority:  PriorityBreakdown(batch.Results),
		Trend:       TrendSeries(batch.Results, now),
		Recent:      ViewsOf(recent, now),
		GeneratedAt: now.UTC(),
	}
}
