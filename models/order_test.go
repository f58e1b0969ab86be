package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{"forward to shipped", OrderStatusOnProcess, OrderStatusShipped, true},
		{"forward to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"skip shipped", OrderStatusOnProcess, OrderStatusDelivered, false},
		{"backward from shipped", OrderStatusShipped, OrderStatusOnProcess, false},
		{"backward from delivered", OrderStatusDelivered, OrderStatusShipped, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusDelivered, false},
		{"self transition", OrderStatusOnProcess, OrderStatusOnProcess, false},
		{"unknown target", OrderStatusOnProcess, OrderStatus("Cancelled"), false},
		{"unknown source", OrderStatus("Draft"), OrderStatusShipped, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStatusTransition(tc.from, tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var illegal *IllegalTransitionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, tc.from, illegal.From)
			assert.Equal(t, tc.to, illegal.To)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Quantity: 2, Price: 100},
		{ProductID: "p2", Quantity: 3, Price: 10},
	}
	assert.Equal(t, 230.0, OrderTotal(items))
	assert.Equal(t, 0.0, OrderTotal(nil))
}
