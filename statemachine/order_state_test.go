package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-order-api/models"
)

func TestCanTransition_FullGrid(t *testing.T) {
	allowed := map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
		models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusCancelled},
		models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
		models.OrderStatusReady:     {models.OrderStatusDelivered, models.OrderStatusCancelled},
	}

	for _, from := range models.AllOrderStatuses {
		for _, to := range models.AllOrderStatuses {
			err := CanTransition(from, to)
			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				if assert.Error(t, err, "%s -> %s", from, to) {
					assert.Contains(t, err.Error(), string(from))
					assert.Contains(t, err.Error(), string(to))
				}
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusDelivered))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusPending))
	assert.False(t, IsTerminal(models.OrderStatusReady))
	assert.False(t, IsTerminal(models.OrderStatus("Unknown")))

	assert.Empty(t, ValidTransitionsFrom(models.OrderStatusDelivered))
	err := CanTransition(models.OrderStatusDelivered, models.OrderStatusCancelled)
	assert.ErrorContains(t, err, "terminal state")
}

func contains(list []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
