package restaurant

import (
	"testing"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

func TestCanTransitionBooking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from enums.BookingStatus
		to   enums.BookingStatus
		want bool
	}{
		{"pending to confirmed", enums.BookingStatusPending, enums.BookingStatusConfirmed, true},
		{"confirmed is terminal", enums.BookingStatusConfirmed, enums.BookingStatusPending, false},
		{"canceled is terminal", enums.BookingStatusCanceled, enums.BookingStatusConfirmed, false},
		{"cancel is not a transition", enums.BookingStatusPending, enums.BookingStatusCanceled, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransitionBooking(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransitionBooking(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCanCancelBooking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status enums.BookingStatus
		actor  enums.ActorRole
		want   bool
	}{
		{"guest cancels pending", enums.BookingStatusPending, enums.ActorUser, true},
		{"admin cancels pending", enums.BookingStatusPending, enums.ActorAdmin, true},
		{"guest cannot cancel confirmed", enums.BookingStatusConfirmed, enums.ActorUser, false},
		{"admin cancels confirmed", enums.BookingStatusConfirmed, enums.ActorAdmin, true},
		{"nobody cancels canceled", enums.BookingStatusCanceled, enums.ActorAdmin, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanCancelBooking(tc.status, tc.actor); got != tc.want {
				t.Fatalf("CanCancelBooking(%s, %s) = %v, want %v", tc.status, tc.actor, got, tc.want)
			}
		})
	}
}

func TestCanTransitionFoodOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from enums.FoodOrderStatus
		to   enums.FoodOrderStatus
		want bool
	}{
		{"pending to preparing", enums.FoodOrderStatusPending, enums.FoodOrderStatusPreparing, true},
		{"preparing to delivered", enums.FoodOrderStatusPreparing, enums.FoodOrderStatusDelivered, true},
		{"pending skips to delivered", enums.FoodOrderStatusPending, enums.FoodOrderStatusDelivered, false},
		{"delivered is terminal", enums.FoodOrderStatusDelivered, enums.FoodOrderStatusPreparing, false},
		{"canceled is terminal", enums.FoodOrderStatusCanceled, enums.FoodOrderStatusPreparing, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransitionFoodOrder(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransitionFoodOrder(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCanCancelFoodOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status enums.FoodOrderStatus
		actor  enums.ActorRole
		want   bool
	}{
		{"guest cancels pending", enums.FoodOrderStatusPending, enums.ActorUser, true},
		{"guest cannot cancel preparing", enums.FoodOrderStatusPreparing, enums.ActorUser, false},
		{"admin cancels preparing", enums.FoodOrderStatusPreparing, enums.ActorAdmin, true},
		{"nobody cancels delivered", enums.FoodOrderStatusDelivered, enums.ActorAdmin, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanCancelFoodOrder(tc.status, tc.actor); got != tc.want {
				t.Fatalf("CanCancelFoodOrder(%s, %s) = %v, want %v", tc.status, tc.actor, got, tc.want)
			}
		})
	}
}
