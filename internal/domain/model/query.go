package model

import "time"

// TimeRange is an inclusive interval of instants.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Search string
	Range  *TimeRange
}

// PageRequest is an offset based window over a sorted listing.
type PageRequest struct {
	Offset int
	Limit  int
}

// ListQuery carries listing parameters as received from callers.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	StartDate string
	EndDate   string
}

// OrderPage is one page of a filtered listing along with its totals.
type OrderPage struct {
	Orders     []Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// DashboardQuery carries dashboard parameters as received from callers.
type DashboardQuery struct {
	Period    string
	StartDate string
	EndDate   string
}
