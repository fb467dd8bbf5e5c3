package domain

import (
	"testing"
	"time"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func orderDue(status OrderStatus, predicted Date) ServiceOrder {
	return ServiceOrder{ID: 1, Status: status, Priority: PriorityMedium, PredictedDate: predicted}
}

func TestIsOverdue(t *testing.T) {
	yesterday := DateOf(now).AddDays(-1)
	tomorrow := DateOf(now).AddDays(1)

	tests := []struct {
		name  string
		order ServiceOrder
		want  bool
	}{
		{"open past deadline", orderDue(StatusOpen, yesterday), true},
		{"unresolved past deadline", orderDue(StatusUnresolved, yesterday), true},
		{"open before deadline", orderDue(StatusOpen, tomorrow), false},
		{"closed past deadline", orderDue(StatusClosed, yesterday), false},
		{"closed long ago", orderDue(StatusClosed, NewDate(2001, 1, 1)), false},
		{"open without predicted date", orderDue(StatusOpen, Date{}), false},
		{"unresolved without predicted date", orderDue(StatusUnresolved, Date{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.order, now); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOverdue_StrictlyAfter(t *testing.T) {
	o := orderDue(StatusOpen, DateOf(now))
	if IsOverdue(o, o.PredictedDate.Time) {
		t.Error("an order is not overdue at the exact predicted instant")
	}
	if !IsOverdue(o, o.PredictedDate.Add(time.Nanosecond)) {
		t.Error("an order is overdue right after the predicted instant")
	}
}

func TestDaysUntilDeadline(t *testing.T) {
	tests := []struct {
		name      string
		predicted Date
		want      int
	}{
		{"tomorrow", DateOf(now).AddDays(1), 1},
		{"in a week", DateOf(now).AddDays(7), 7},
		{"earlier today", DateOf(now), 0},
		{"yesterday", DateOf(now).AddDays(-1), -1},
		{"ten days ago", DateOf(now).AddDays(-10), -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUntilDeadline(orderDue(StatusOpen, tt.predicted), now)
			if got != tt.want {
				t.Errorf("DaysUntilDeadline = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysUntilDeadline_NoPredictedDate(t *testing.T) {
	if got := DaysUntilDeadline(orderDue(StatusOpen, Date{}), now); got != 0 {
		t.Errorf("expected 0 without a deadline, got %d", got)
	}
}

func TestDaysUntilDeadline_IgnoresStatus(t *testing.T) {
	yesterday := DateOf(now).AddDays(-1)
	open := DaysUntilDeadline(orderDue(StatusOpen, yesterday), now)
	closed := DaysUntilDeadline(orderDue(StatusClosed, yesterday), now)
	if open != closed {
		t.Errorf("status changed the result: open=%d closed=%d", open, closed)
	}
}

func TestDaysUntilDeadline_DecreasesAndCrossesZeroAtDeadline(t *testing.T) {
	o := orderDue(StatusOpen, DateOf(now).AddDays(3))

	prev := DaysUntilDeadline(o, now)
	for step := now; step.Before(o.PredictedDate.AddDate(0, 0, 3)); step = step.Add(5 * time.Hour) {
		got := DaysUntilDeadline(o, step)
		if got > prev {
			t.Fatalf("result increased from %d to %d at %v", prev, got, step)
		}
		prev = got
	}

	if got := DaysUntilDeadline(o, o.PredictedDate.Time); got != 0 {
		t.Errorf("at the deadline got %d, want 0", got)
	}
	if got := DaysUntilDeadline(o, o.PredictedDate.Add(-time.Second)); got != 1 {
		t.Errorf("just before the deadline got %d, want 1", got)
	}
}

func TestViewOf_KeepsServerDelay(t *testing.T) {
	o := orderDue(StatusOpen, DateOf(now).AddDays(2))
	o.DaysDelay = 4

	v := ViewOf(o, now)
	if v.Overdue {
		t.Error("expected not overdue")
	}
	if v.DaysDelay != 4 {
		t.Errorf("server delay must travel unchanged, got %d", v.DaysDelay)
	}
	if v.DaysUntilDeadline != 2 {
		t.Errorf("expected 2 days left, got %d", v.DaysUntilDeadline)
	}
}

func TestViewsOf_Empty(t *testing.T) {
	if got := ViewsOf(nil, now); len(got) != 0 {
		t.Errorf("expected no views, got %d", len(got))
	}
}
