package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secondspine/bookstore/internal/domains/orders/ports"
	sharederrors "github.com/secondspine/bookstore/internal/shared/errors"
)

// OrdersHandler serves the checkout endpoint, the customer order history,
// and the back-office order views.
type OrdersHandler struct {
	orders  ports.Service
	respond *sharederrors.Responder
}

func NewOrdersHandler(orders ports.Service, respond *sharederrors.Responder) *OrdersHandler {
	return &OrdersHandler{orders: orders, respond: respond}
}

type checkoutRequest struct {
	CartID    string `json:"cartId" binding:"required"`
	AddressID int64  `json:"addressId" binding:"required"`
}

// Checkout converts the caller's cart into an order.
func (h *OrdersHandler) Checkout(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), req.CartID, sub, req.AddressID)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainOrder(order))
}

// Get fetches a single order by id.
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrder(order))
}

// History lists the caller's orders. Unknown subjects own no orders.
func (h *OrdersHandler) History(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	orders, err := h.orders.OrdersForCustomer(c.Request.Context(), sub)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainOrders(orders))
}

// Cancel cancels an order on behalf of its owner. Cancelling a missing or
// foreign order reports success without touching anything.
func (h *OrdersHandler) Cancel(c *gin.Context) {
	sub, ok := customerSub(c, h.respond)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), id, sub); err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type listResponse struct {
	Orders    []Order `json:"orders"`
	Total     int64   `json:"total"`
	PageIndex int     `json:"pageIndex"`
	PageSize  int     `json:"pageSize"`
}

// List pages through orders for the back office, optionally filtered by
// status label.
func (h *OrdersHandler) List(c *gin.Context) {
	pageIndex := queryInt(c, "page", 1)
	pageSize := queryInt(c, "size", 10)

	var filters ports.Filters
	if label := c.Query("status"); label != "" {
		status, err := toDomainStatus(label)
		if err != nil {
			h.respond.RespondError(c, err)
			return
		}
		filters.Status = &status
	}

	orders, total, err := h.orders.List(c.Request.Context(), filters, pageIndex, pageSize)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Orders:    fromDomainOrders(orders),
		Total:     total,
		PageIndex: pageIndex,
		PageSize:  pageSize,
	})
}

type statisticsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Delayed   int64 `json:"delayed"`
	Cancelled int64 `json:"cancelled"`
}

// Statistics summarises the order book for the back-office dashboard.
func (h *OrdersHandler) Statistics(c *gin.Context) {
	stats, err := h.orders.Statistics(c.Request.Context())
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statisticsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Delayed:   stats.Delayed,
		Cancelled: stats.Cancelled,
	})
}

// Important serves the triage dashboard. The sort query accepts
// price|price_desc|date|date_desc; any other value leaves the triage order
// untouched.
func (h *OrdersHandler) Important(c *gin.Context) {
	triaged, err := h.orders.ImportantOrders(c.Request.Context(), c.Query("sort"))
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainTriaged(triaged))
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus transitions an order's lifecycle status.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id", h.respond)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, err.Error())
		return
	}
	status, err := toDomainStatus(req.Status)
	if err != nil {
		h.respond.RespondError(c, err)
		return
	}
	if err := h.orders.UpdateStatus(c.Request.Context(), id, status); err != nil {
		h.respond.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
