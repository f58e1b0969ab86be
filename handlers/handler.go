package handlers

import (
	"github.com/eshop-labs/eshop-backend-go/checkout"
	"github.com/eshop-labs/eshop-backend-go/events"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/labstack/echo/v4"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	stores   *store.Stores
	checkout *checkout.Workflow
	events   *events.Publisher
}

func New(stores *store.Stores, workflow *checkout.Workflow, publisher *events.Publisher) *Handler {
	return &Handler{stores: stores, checkout: workflow, events: publisher}
}

// uid extracts the session user id set by the auth middleware.
func uid(c echo.Context) string {
	id, _ := c.Get("uid").(string)
	return id
}
