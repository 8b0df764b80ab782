package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/server/http/dto"
)

// DashboardHandler serves sales analytics.
type DashboardHandler struct {
	facade DashboardFacade
	logger *slog.Logger
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(facade DashboardFacade, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{facade: facade, logger: logger}
}

// Stats handles GET /dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
	d, err := h.facade.Dashboard(c.Request.Context(), model.DashboardQuery{
		Period:    c.Query("period"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	trend := make([]dto.TrendPoint, 0, len(d.Trend))
	for _, b := range d.Trend {
		trend = append(trend, dto.TrendPoint{Bucket: b.Key, Sales: b.Sales.InexactFloat64(), Orders: b.Orders})
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: dto.DashboardResponse{
		Period:      string(d.Window.Period),
		Granularity: string(d.Window.Granularity),
		From:        d.Window.Range.From,
		To:          d.Window.Range.To,
		KPI: dto.KPIResponse{
			Revenue:   d.KPI.Revenue.InexactFloat64(),
			Orders:    d.KPI.Orders,
			AOV:       d.KPI.AOV.InexactFloat64(),
			NetProfit: d.KPI.NetProfit.InexactFloat64(),
		},
		Trend: trend,
	}})
}
