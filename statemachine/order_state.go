package statemachine

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-order-api/models"
)

// Transition mendefinisikan satu perubahan status yang sah
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions adalah definisi state machine order
var validTransitions = []Transition{
	{From: models.OrderStatusPending, To: models.OrderStatusConfirmed},
	{From: models.OrderStatusPending, To: models.OrderStatusCancelled},
	{From: models.OrderStatusConfirmed, To: models.OrderStatusPreparing},
	{From: models.OrderStatusConfirmed, To: models.OrderStatusCancelled},
	{From: models.OrderStatusPreparing, To: models.OrderStatusReady},
	{From: models.OrderStatusPreparing, To: models.OrderStatusCancelled},
	{From: models.OrderStatusReady, To: models.OrderStatusDelivered},
	{From: models.OrderStatusReady, To: models.OrderStatusCancelled},
}

var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// IsTerminal -> true untuk Delivered dan Cancelled
func IsTerminal(status models.OrderStatus) bool {
	return status.Valid() && len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if an order may move from one state to another
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s -> %s is not allowed; valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
