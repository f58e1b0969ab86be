package handlers

import (
	"net/http"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetAddresses(c echo.Context) error {
	addresses, err := h.stores.Addresses.ListByUser(c.Request().Context(), uid(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch addresses"})
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return c.JSON(http.StatusOK, addresses)
}

// AddAddress creates a delivery address. Addresses are immutable afterwards;
// there is no update or delete route.
func (h *Handler) AddAddress(c echo.Context) error {
	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if addr.Label == "" || addr.Line1 == "" || addr.City == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Label, line1 and city are required"})
	}

	addr.ID = ""
	addr.UserID = uid(c)
	created, err := h.stores.Addresses.Create(c.Request().Context(), addr)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create address"})
	}
	return c.JSON(http.StatusCreated, created)
}
