package orders

import (
	"testing"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from enums.OrderStatus
		to   enums.OrderStatus
		want bool
	}{
		{"to_process to shipping", enums.OrderStatusToProcess, enums.OrderStatusShipping, true},
		{"shipping to delivered", enums.OrderStatusShipping, enums.OrderStatusDelivered, true},
		{"to_process skips to delivered", enums.OrderStatusToProcess, enums.OrderStatusDelivered, false},
		{"delivered is terminal", enums.OrderStatusDelivered, enums.OrderStatusShipping, false},
		{"canceled is terminal", enums.OrderStatusCanceled, enums.OrderStatusShipping, false},
		{"no backward move", enums.OrderStatusShipping, enums.OrderStatusToProcess, false},
		{"cancel is not a transition", enums.OrderStatusToProcess, enums.OrderStatusCanceled, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		status              enums.OrderStatus
		actor               enums.ActorRole
		adminCancelShipping bool
		want                bool
	}{
		{"user cancels to_process", enums.OrderStatusToProcess, enums.ActorUser, true, true},
		{"admin cancels to_process", enums.OrderStatusToProcess, enums.ActorAdmin, true, true},
		{"system cancels to_process", enums.OrderStatusToProcess, enums.ActorSystem, true, true},
		{"user cannot cancel shipping", enums.OrderStatusShipping, enums.ActorUser, true, false},
		{"admin cancels shipping when enabled", enums.OrderStatusShipping, enums.ActorAdmin, true, true},
		{"admin cannot cancel shipping when disabled", enums.OrderStatusShipping, enums.ActorAdmin, false, false},
		{"nobody cancels delivered", enums.OrderStatusDelivered, enums.ActorAdmin, true, false},
		{"nobody cancels canceled", enums.OrderStatusCanceled, enums.ActorAdmin, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanCancel(tc.status, tc.actor, tc.adminCancelShipping); got != tc.want {
				t.Fatalf("CanCancel(%s, %s, %v) = %v, want %v", tc.status, tc.actor, tc.adminCancelShipping, got, tc.want)
			}
		})
	}
}
