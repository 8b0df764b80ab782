package dto

import "time"

// KPIResponse is the dashboard summary block.
type KPIResponse struct {
	Revenue   float64 `json:"revenue"`
	Orders    int64   `json:"orders"`
	AOV       float64 `json:"aov"`
	NetProfit float64 `json:"netProfit"`
}

// TrendPoint is one bucket of the sales trend.
type TrendPoint struct {
	Bucket string  `json:"bucket"`
	Sales  float64 `json:"sales"`
	Orders int64   `json:"orders"`
}

// DashboardResponse combines KPI and trend with the resolved window.
type DashboardResponse struct {
	Period      string       `json:"period"`
	Granularity string       `json:"granularity"`
	From        time.Time    `json:"from"`
	To          time.Time    `json:"to"`
	KPI         KPIResponse  `json:"kpi"`
	Trend       []TrendPoint `json:"trend"`
}
