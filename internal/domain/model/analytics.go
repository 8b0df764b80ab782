package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period names a reporting window relative to the request time.
type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// Granularity selects the trend bucket width.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Layout returns the time layout used to label buckets of this width.
func (g Granularity) Layout() string {
	if g == GranularityMonth {
		return "2006-01"
	}
	return "2006-01-02"
}

// ReportWindow is a resolved reporting period.
type ReportWindow struct {
	Period      Period
	Range       TimeRange
	Granularity Granularity
}

// AggregateFilter selects the orders that feed analytics.
type AggregateFilter struct {
	Status   OrderStatus
	Range    TimeRange
	Location *time.Location
}

// Totals are raw sums over a set of orders.
type Totals struct {
	Revenue decimal.Decimal
	Orders  int64
}

// Bucket is one point of the sales trend.
type Bucket struct {
	Key    string
	Sales  decimal.Decimal
	Orders int64
}

// KPI is the dashboard summary block.
type KPI struct {
	Revenue   decimal.Decimal
	Orders    int64
	AOV       decimal.Decimal
	NetProfit decimal.Decimal
}

// Dashboard combines KPI and trend for a reporting window.
type Dashboard struct {
	Window ReportWindow
	KPI    KPI
	Trend  []Bucket
}
