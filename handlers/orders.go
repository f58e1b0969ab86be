package handlers

import (
	"errors"
	"net/http"

	"github.com/eshop-labs/eshop-backend-go/checkout"
	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// PlaceOrder runs the checkout workflow for the user's cart.
func (h *Handler) PlaceOrder(c echo.Context) error {
	var req struct {
		AddressID      string `json:"addressId"`
		IdempotencyKey string `json:"idempotencyKey"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	result, err := h.checkout.PlaceOrder(c.Request().Context(), checkout.Request{
		UserID:         uid(c),
		AddressID:      req.AddressID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return writeCheckoutError(c, err)
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]interface{}{
		"order":       result.Order,
		"cartCleared": result.CartCleared,
		"duplicate":   result.Duplicate,
	})
}

// writeCheckoutError maps workflow failures to responses that say which step
// failed and, when stock was touched, what was rolled back.
func writeCheckoutError(c echo.Context, err error) error {
	var (
		wfErr        *checkout.Error
		insufficient *checkout.InsufficientStockError
		removed      *checkout.ProductRemovedError
		conflict     *checkout.ConflictError
		rollback     *checkout.RollbackError
	)

	if !errors.As(err, &wfErr) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Order placement failed"})
	}

	body := map[string]interface{}{
		"step": string(wfErr.Step),
	}
	if wfErr.Reference != "" {
		body["reference"] = wfErr.Reference
	}
	if len(wfErr.RolledBack) > 0 {
		body["rolledBack"] = wfErr.RolledBack
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		body["error"] = "Cart is empty"
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, checkout.ErrInvalidAddress):
		body["error"] = "Address missing or not owned by user"
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &removed):
		body["error"] = "Product no longer exists"
		body["productId"] = removed.ProductID
		return c.JSON(http.StatusNotFound, body)
	case errors.As(err, &insufficient):
		body["error"] = "Insufficient stock"
		body["productId"] = insufficient.ProductID
		body["requested"] = insufficient.Requested
		body["available"] = insufficient.Available
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &conflict):
		body["error"] = "Concurrent stock update, please retry"
		body["productId"] = conflict.ProductID
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &rollback):
		body["error"] = "Order aborted but stock could not be fully restored, contact support"
		body["strandedProducts"] = rollback.ProductIDs
		return c.JSON(http.StatusInternalServerError, body)
	default:
		body["error"] = "Order placement failed"
		return c.JSON(http.StatusBadGateway, body)
	}
}

// GetMyOrders lists the requesting user's orders.
func (h *Handler) GetMyOrders(c echo.Context) error {
	orders, err := h.stores.Orders.ListByUser(c.Request().Context(), uid(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order, visible to its owner and to admins.
func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.stores.Orders.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	isAdmin, _ := c.Get("isAdmin").(bool)
	if order.UserID != uid(c) && !isAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not your order"})
	}
	return c.JSON(http.StatusOK, order)
}
