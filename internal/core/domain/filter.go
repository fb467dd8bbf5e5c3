package domain

import (
	"net/url"
	"strconv"
)

// OrderFilter holds the optional list criteria. Zero values mean "absent"
// and are never transmitted.
type OrderFilter struct {
	Status        OrderStatus
	Priority      Priority
	Responsible   int64
	FromUser      int64
	Search        string
	StartDateFrom Date
	StartDateTo   Date
	Ordering      string
	Page          int
	PageSize      int
}

// Values encodes the filter as query parameters, dropping empty fields.
func (f OrderFilter) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	setInt := func(key string, n int64) {
		if n > 0 {
			v.Set(key, strconv.FormatInt(n, 10))
		}
	}

	set("status", string(f.Status))
	set("priority", string(f.Priority))
	setInt("responsible", f.Responsible)
	setInt("from_user", f.FromUser)
	set("search", f.Search)
	set("start_date_from", f.StartDateFrom.String())
	set("start_date_to", f.StartDateTo.String())
	set("ordering", f.Ordering)
	setInt("page", int64(f.Page))
	setInt("page_size", int64(f.PageSize))
	return v
}
