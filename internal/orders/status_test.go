package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusPaid, StatusShipped))
	assert.True(t, CanTransition(StatusPaid, StatusCancelled))
	assert.True(t, CanTransition(StatusShipped, StatusCompleted))

	assert.False(t, CanTransition(StatusPending, StatusShipped))
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(Status("refunded")))
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{Details: []StockShortage{
		{ProductID: "p1", Required: 3, Available: 1},
		{ProductID: "p2", Required: 2, Available: 0},
	}}
	assert.Contains(t, err.Error(), "2 product(s)")
}
