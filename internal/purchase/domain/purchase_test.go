package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureOwner(t *testing.T) {
	p := &Purchase{ID: 1, CustomerID: 7}

	assert.NoError(t, EnsureOwner(p, 7))
	assert.ErrorIs(t, EnsureOwner(p, 8), ErrNotOwner)
}

func TestIsCancelled(t *testing.T) {
	assert.False(t, (&Purchase{Status: StatusConfirmed}).IsCancelled())
	assert.True(t, (&Purchase{Status: StatusCancelled}).IsCancelled())
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductIDs: []uint{3, 9}}

	assert.Equal(t, "insufficient stock for products [3 9]", err.Error())
}
