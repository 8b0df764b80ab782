package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/domain/model"
	"github.com/polkiloo/posledger/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domainErrors.Invalidf(domainErrors.ErrInvalidInput, "malformed request body"))
		return
	}

	order, created, err := h.facade.RecordSale(c.Request.Context(), toSaleInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Order already exists", Data: toOrderResponse(*order)})
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Message: "Order created!", Data: toOrderResponse(*order)})
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, err := positiveQueryInt(c, "page")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	limit, err := positiveQueryInt(c, "limit")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.facade.Orders(c.Request.Context(), model.ListQuery{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	orders := make([]dto.OrderResponse, 0, len(result.Orders))
	for _, o := range result.Orders {
		orders = append(orders, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    orders,
		Pagination: &dto.Pagination{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: toOrderResponse(*order)})
}

// UpdateStatus handles PUT /orders/:id.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, domainErrors.Invalidf(domainErrors.ErrInvalidInput, "malformed request body"))
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Value())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Order updated", Data: toOrderResponse(*order)})
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Order deleted"})
}

// DeleteAll handles DELETE /orders.
func (h *OrderHandler) DeleteAll(c *gin.Context) {
	n, err := h.facade.DeleteAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Warn("all orders deleted", slog.Int64("deleted", n))
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "All orders deleted", Data: dto.DeleteAllResponse{Deleted: n}})
}

// positiveQueryInt returns 0 when the parameter is absent.
func positiveQueryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domainErrors.Invalidf(domainErrors.ErrInvalidInput, "%s must be a positive integer", key)
	}
	return n, nil
}

func toSaleInput(req dto.CreateOrderRequest) model.SaleInput {
	items := make([]model.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.Item{
			ProductID: strings.TrimSpace(it.ProductID),
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Variant:   it.Variant,
		})
	}
	return model.SaleInput{
		OrderID: req.OrderID,
		Customer: model.Customer{
			Name:   req.Customer.Name,
			Phone:  req.Customer.Phone,
			Guests: req.Customer.Guests,
		},
		Items:         items,
		Total:         req.Total(),
		Table:         string(req.Table),
		PaymentMethod: req.PaymentMethod,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice.InexactFloat64(),
			Variant:   it.Variant,
		})
	}
	return dto.OrderResponse{
		ID:          order.ID.String(),
		OrderID:     order.OrderID,
		Items:       items,
		TotalAmount: order.TotalAmount.InexactFloat64(),
		Status:      string(order.Status),
		Timestamp:   order.Timestamp,
		Customer: dto.CustomerDetails{
			Name:   order.Customer.Name,
			Phone:  order.Customer.Phone,
			Guests: order.Customer.Guests,
		},
		Table:         order.Table,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
