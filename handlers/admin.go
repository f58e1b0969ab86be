package handlers

import (
	"errors"
	"net/http"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// GetAllOrders lists every order for the admin panel.
func (h *Handler) GetAllOrders(c echo.Context) error {
	orders, err := h.stores.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus advances an order through its lifecycle. Only the next
// forward step is accepted; Delivered is terminal.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status"})
	}

	ctx := c.Request().Context()
	order, err := h.stores.Orders.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	if err := models.ValidateStatusTransition(order.Status, req.Status); err != nil {
		var illegal *models.IllegalTransitionError
		if errors.As(err, &illegal) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error": "Illegal status transition",
				"from":  illegal.From,
				"to":    illegal.To,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	updated, err := h.stores.Orders.UpdateStatus(ctx, order.ID, req.Status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}

	h.events.OrderStatusUpdated(ctx, updated)
	return c.JSON(http.StatusOK, updated)
}

// GetStats aggregates the numbers shown on the admin dashboard.
func (h *Handler) GetStats(c echo.Context) error {
	orders, err := h.stores.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	var revenue float64
	var pending, delivered int
	for _, o := range orders {
		revenue += o.Total
		switch o.Status {
		case models.OrderStatusOnProcess:
			pending++
		case models.OrderStatusDelivered:
			delivered++
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":     len(orders),
		"revenue":   revenue,
		"pending":   pending,
		"delivered": delivered,
	})
}
