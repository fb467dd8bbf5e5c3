package domain

import "testing"

func TestOrderFilter_Values_Empty(t *testing.T) {
	if q := (OrderFilter{}).Values().Encode(); q != "" {
		t.Errorf("an empty filter must encode to nothing, got %q", q)
	}
}

func TestOrderFilter_Values(t *testing.T) {
	f := OrderFilter{
		Status:        StatusOpen,
		Priority:      PriorityHigh,
		Responsible:   7,
		Search:        "printer jam",
		StartDateFrom: NewDate(2024, 3, 1),
		Page:          2,
		PageSize:      25,
	}

	got := f.Values().Encode()
	want := "page=2&page_size=25&priority=high&responsible=7&search=printer+jam&start_date_from=2024-03-01&status=open"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestOrderFilter_Values_DropsNonPositive(t *testing.T) {
	f := OrderFilter{Responsible: -1, Page: 0, PageSize: -5, Ordering: "-created_at"}
	if got := f.Values().Encode(); got != "ordering=-created_at" {
		t.Errorf("unexpected query %q", got)
	}
}
