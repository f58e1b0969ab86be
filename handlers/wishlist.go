package handlers

import (
	"errors"
	"net/http"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// GetWishlist returns the user's wishlist, or an empty one when none exists.
func (h *Handler) GetWishlist(c echo.Context) error {
	w, err := h.stores.Wishlists.FindByUser(c.Request().Context(), uid(c))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusOK, models.Wishlist{UserID: uid(c), ProductIDs: []string{}})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wishlist"})
	}
	return c.JSON(http.StatusOK, w)
}

// AddToWishlist adds a product id to the user's wishlist set. Re-adding a
// present id is a no-op; out-of-stock products cannot be added.
func (h *Handler) AddToWishlist(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
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

	w, err := h.stores.Wishlists.FindByUser(ctx, uid(c))
	if errors.Is(err, store.ErrNotFound) {
		w = models.Wishlist{UserID: uid(c)}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wishlist"})
	}

	updated, err := w.Add(req.ProductID, product.Stock)
	if errors.Is(err, models.ErrOutOfStock) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Cannot wishlist an out of stock product"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if updated.ID == "" {
		updated, err = h.stores.Wishlists.Create(ctx, updated)
	} else {
		updated, err = h.stores.Wishlists.SetProductIDs(ctx, updated.ID, updated.ProductIDs)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save wishlist"})
	}
	return c.JSON(http.StatusOK, updated)
}

// RemoveFromWishlist removes a product id. Removing an absent id returns the
// wishlist unchanged.
func (h *Handler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	w, err := h.stores.Wishlists.FindByUser(ctx, uid(c))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusOK, models.Wishlist{UserID: uid(c), ProductIDs: []string{}})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wishlist"})
	}

	updated := w.Remove(c.Param("productId"))
	if len(updated.ProductIDs) == len(w.ProductIDs) {
		// Absent id: nothing to persist.
		return c.JSON(http.StatusOK, w)
	}

	updated, err = h.stores.Wishlists.SetProductIDs(ctx, updated.ID, updated.ProductIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save wishlist"})
	}
	return c.JSON(http.StatusOK, updated)
}
