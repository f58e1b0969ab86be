package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAdd_Idempotent(t *testing.T) {
	w := Wishlist{UserID: "u1"}

	w, err := w.Add("p1", 5)
	require.NoError(t, err)
	w, err = w.Add("p1", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, w.ProductIDs)
}

func TestWishlistAdd_OutOfStock(t *testing.T) {
	w := Wishlist{UserID: "u1"}

	_, err := w.Add("p1", 0)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestWishlistRemove_AbsentIDIsNoOp(t *testing.T) {
	w := Wishlist{UserID: "u1", ProductIDs: []string{"p1", "p2"}}

	updated := w.Remove("missing")
	assert.Equal(t, []string{"p1", "p2"}, updated.ProductIDs)
}

func TestWishlistRemove(t *testing.T) {
	w := Wishlist{UserID: "u1", ProductIDs: []string{"p1", "p2"}}

	updated := w.Remove("p1")
	assert.Equal(t, []string{"p2"}, updated.ProductIDs)
	assert.True(t, w.Contains("p1"), "Remove must not mutate the receiver")
}
