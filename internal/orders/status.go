package orders

import (
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// transitions is the single authoritative table for forward status moves.
// Cancellation is handled separately through the cancel policy below.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusToProcess: {enums.OrderStatusShipping},
	enums.OrderStatusShipping:  {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered: {},
	enums.OrderStatusCanceled:  {},
}

// CanTransition reports whether from can move to to.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// cancelPolicy lists which actors may cancel an order in each status.
// Shipping cancellation is an admin-only escape hatch and can be disabled
// through configuration.
var cancelPolicy = map[enums.OrderStatus][]enums.ActorRole{
	enums.OrderStatusToProcess: {enums.ActorUser, enums.ActorAdmin, enums.ActorSystem},
	enums.OrderStatusShipping:  {enums.ActorAdmin},
}

// CanCancel reports whether the actor may cancel an order in the given status.
func CanCancel(status enums.OrderStatus, actor enums.ActorRole, adminCancelShipping bool) bool {
	if status == enums.OrderStatusShipping && !adminCancelShipping {
		return false
	}
	for _, candidate := range cancelPolicy[status] {
		if candidate == actor {
			return true
		}
	}
	return false
}
