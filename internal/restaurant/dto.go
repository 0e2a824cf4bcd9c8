package restaurant

import (
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// GuestInput is the contact block required when no account is attached.
type GuestInput struct {
	Name  string
	Email string
	Phone string
}

// CreateBookingInput captures everything needed to request a table.
type CreateBookingInput struct {
	UserID          *uuid.UUID
	Guest           *GuestInput
	PartySize       int
	BookingAt       time.Time
	Note            *string
	PaymentProofURL *string
}

// CreateFoodItemInput is a single requested dish before the snapshot is frozen.
type CreateFoodItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateFoodOrderInput captures everything needed to place a food order.
type CreateFoodOrderInput struct {
	UserID          *uuid.UUID
	Guest           *GuestInput
	DeliveryAddress *string
	Note            *string
	PaymentProofURL *string
	Items           []CreateFoodItemInput
}

// CancelBookingInput cancels a booking with an audit trail.
type CancelBookingInput struct {
	BookingID   uuid.UUID
	Reason      string
	ActorRole   enums.ActorRole
	ActorUserID *uuid.UUID
}

// CancelFoodOrderInput cancels a food order with an audit trail.
type CancelFoodOrderInput struct {
	FoodOrderID uuid.UUID
	Reason      string
	ActorRole   enums.ActorRole
	ActorUserID *uuid.UUID
}

// BookingFilters describe the inputs supported by the admin bookings list.
type BookingFilters struct {
	Status   *enums.BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// FoodOrderFilters describe the inputs supported by the admin food orders list.
type FoodOrderFilters struct {
	Status   *enums.FoodOrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
