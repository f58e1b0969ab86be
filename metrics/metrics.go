// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eshop_orders_placed_total",
		Help: "Orders successfully recorded by the checkout workflow.",
	})

	PlacementFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eshop_order_placement_failures_total",
		Help: "Checkout workflow failures by step.",
	}, []string{"step"})

	ReservationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eshop_stock_reservation_conflicts_total",
		Help: "Stock reservations refused by the conditional write.",
	})

	RollbackFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eshop_stock_rollback_failures_total",
		Help: "Compensating stock restores that could not be applied.",
	})
)

// Handler serves the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
