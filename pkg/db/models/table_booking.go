package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// TableBooking represents a restaurant table reservation.
type TableBooking struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingCode     string              `gorm:"column:booking_code;not null;uniqueIndex:idx_table_bookings_booking_code"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	Guest           GuestContact        `gorm:"embedded"`
	Status          enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'PENDING'"`
	PartySize       int                 `gorm:"column:party_size;not null"`
	BookingAt       time.Time           `gorm:"column:booking_at;not null"`
	Note            *string             `gorm:"column:note"`
	PaymentProofURL *string             `gorm:"column:payment_proof_url"`
	ConfirmedAt     *time.Time          `gorm:"column:confirmed_at"`
	CanceledAt      *time.Time          `gorm:"column:canceled_at"`
	CancelReason    *string             `gorm:"column:cancel_reason"`
	CanceledBy      *enums.ActorRole    `gorm:"column:canceled_by;type:actor_role"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsGuest reports whether the booking was placed without an account.
func (b TableBooking) IsGuest() bool {
	return b.UserID == nil
}
