package restaurant

import (
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

var bookingTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending:   {enums.BookingStatusConfirmed},
	enums.BookingStatusConfirmed: {},
	enums.BookingStatusCanceled:  {},
}

// CanTransitionBooking reports whether from can move to to.
func CanTransitionBooking(from, to enums.BookingStatus) bool {
	for _, candidate := range bookingTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Guests may back out until the restaurant confirms; admins can cancel any
// non-terminal booking.
var bookingCancelPolicy = map[enums.BookingStatus][]enums.ActorRole{
	enums.BookingStatusPending:   {enums.ActorUser, enums.ActorAdmin, enums.ActorSystem},
	enums.BookingStatusConfirmed: {enums.ActorAdmin},
}

// CanCancelBooking reports whether the actor may cancel a booking in the given status.
func CanCancelBooking(status enums.BookingStatus, actor enums.ActorRole) bool {
	for _, candidate := range bookingCancelPolicy[status] {
		if candidate == actor {
			return true
		}
	}
	return false
}

var foodOrderTransitions = map[enums.FoodOrderStatus][]enums.FoodOrderStatus{
	enums.FoodOrderStatusPending:   {enums.FoodOrderStatusPreparing},
	enums.FoodOrderStatusPreparing: {enums.FoodOrderStatusDelivered},
	enums.FoodOrderStatusDelivered: {},
	enums.FoodOrderStatusCanceled:  {},
}

// CanTransitionFoodOrder reports whether from can move to to.
func CanTransitionFoodOrder(from, to enums.FoodOrderStatus) bool {
	for _, candidate := range foodOrderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Guests can only cancel before the kitchen starts; admins may cancel until
// the order is delivered.
var foodOrderCancelPolicy = map[enums.FoodOrderStatus][]enums.ActorRole{
	enums.FoodOrderStatusPending:   {enums.ActorUser, enums.ActorAdmin, enums.ActorSystem},
	enums.FoodOrderStatusPreparing: {enums.ActorAdmin},
}

// CanCancelFoodOrder reports whether the actor may cancel a food order in the given status.
func CanCancelFoodOrder(status enums.FoodOrderStatus, actor enums.ActorRole) bool {
	for _, candidate := range foodOrderCancelPolicy[status] {
		if candidate == actor {
			return true
		}
	}
	return false
}
