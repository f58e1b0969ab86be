package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// GetProducts lists the catalog. Supports ?q= for title substring search and
// ?sort= price_asc | price_desc | title_asc.
func (h *Handler) GetProducts(c echo.Context) error {
	products, err := h.stores.Products.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}

	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), q) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	switch c.QueryParam("sort") {
	case "price_asc":
		sort.Slice(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price_desc":
		sort.Slice(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "title_asc":
		sort.Slice(products, func(i, j int) bool { return products[i].Title < products[j].Title })
	}

	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c echo.Context) error {
	product, err := h.stores.Products.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a catalog entry (admin only).
func (h *Handler) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if product.Title == "" || product.Price < 0 || product.Stock < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title required, price and stock must be non-negative"})
	}
	product.ID = ""

	created, err := h.stores.Products.Create(c.Request().Context(), product)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct patches catalog fields (admin only). Stock set here is an
// out-of-band correction; checkout owns the decrement path.
func (h *Handler) UpdateProduct(c echo.Context) error {
	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Stock       *int     `json:"stock"`
		Image       *string  `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	fields := store.Doc{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Price must be non-negative"})
		}
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Stock must be non-negative"})
		}
		fields["stock"] = *req.Stock
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No fields to update"})
	}

	updated, err := h.stores.Products.Update(c.Request().Context(), c.Param("id"), fields)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
	}
	return c.JSON(http.StatusOK, updated)
}
