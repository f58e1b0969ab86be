package handlers

import (
	"errors"
	"net/http"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// GetCart returns the user's cart, or an empty cart when none exists yet.
func (h *Handler) GetCart(c echo.Context) error {
	cart, err := h.stores.Carts.FindByUser(c.Request().Context(), uid(c))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusOK, models.Cart{UserID: uid(c), Items: []models.CartItem{}})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// AddToCart merges a product into the user's cart, creating the cart record
// on first add. Cart mutation is read-modify-write: requests from one browser
// session are sequenced by the UI, concurrent edits from a second device can
// lose an update.
func (h *Handler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "productId is required"})
	}

	ctx := c.Request().Context()
	product, err := h.stores.Products.Get(ctx, req.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	cart, err := h.stores.Carts.FindByUser(ctx, uid(c))
	if errors.Is(err, store.ErrNotFound) {
		cart = models.Cart{UserID: uid(c)}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	updated, err := cart.AddItem(req.ProductID, req.Quantity, product.Stock)
	if errors.Is(err, models.ErrOutOfStock) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Product is out of stock"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if updated.ID == "" {
		updated, err = h.stores.Carts.Create(ctx, updated)
	} else {
		updated, err = h.stores.Carts.SetItems(ctx, updated.ID, updated.Items)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateCartItemQuantity replaces the quantity of one cart line. A quantity
// below 1 removes the line; removing the last line deletes the cart record.
func (h *Handler) UpdateCartItemQuantity(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ctx := c.Request().Context()
	cart, err := h.stores.Carts.FindByUser(ctx, uid(c))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Cart not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	updated, emptied := cart.SetItemQuantity(req.ProductID, req.Quantity)
	if emptied {
		if err := h.stores.Carts.Delete(ctx, cart.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete cart"})
		}
		return c.JSON(http.StatusOK, models.Cart{UserID: uid(c), Items: []models.CartItem{}})
	}

	updated, err = h.stores.Carts.SetItems(ctx, cart.ID, updated.Items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, updated)
}

// RemoveFromCart drops one line; the cart record is deleted with its last
// line.
func (h *Handler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	cart, err := h.stores.Carts.FindByUser(ctx, uid(c))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Cart not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	updated, emptied := cart.RemoveItem(c.Param("productId"))
	if emptied {
		if err := h.stores.Carts.Delete(ctx, cart.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete cart"})
		}
		return c.JSON(http.StatusOK, models.Cart{UserID: uid(c), Items: []models.CartItem{}})
	}

	updated, err = h.stores.Carts.SetItems(ctx, cart.ID, updated.Items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save cart"})
	}
	return c.JSON(http.StatusOK, updated)
}
