package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// GuestInput is the contact block required when no account is attached.
type GuestInput struct {
	Name  string
	Email string
	Phone string
}

// CreateItemInput is a single requested line before the snapshot is frozen.
type CreateItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateInput captures everything needed to place a shop order.
type CreateInput struct {
	UserID          *uuid.UUID
	Guest           *GuestInput
	DeliveryAddress *string
	Note            *string
	Items           []CreateItemInput
}

// TransitionInput moves an order forward along the lifecycle.
type TransitionInput struct {
	OrderID     uuid.UUID
	Target      enums.OrderStatus
	ActorRole   enums.ActorRole
	ActorUserID *uuid.UUID
}

// CancelInput cancels an order with an audit trail.
type CancelInput struct {
	OrderID     uuid.UUID
	Reason      string
	ActorRole   enums.ActorRole
	ActorUserID *uuid.UUID
}

// Filters describe the inputs supported by the admin orders list.
type Filters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// List wraps the paginated orders plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Summary exposes the aggregated fields returned in order lists.
type Summary struct {
	ID             uuid.UUID         `json:"id"`
	OrderCode      string            `json:"order_code"`
	Status         enums.OrderStatus `json:"status"`
	TotalItems     int               `json:"total_items"`
	TotalPriceFCFA int               `json:"total_price_fcfa"`
	CustomerName   string            `json:"customer_name"`
	IsGuest        bool              `json:"is_guest"`
	CreatedAt      time.Time         `json:"created_at"`
}

// RevenueRow aggregates delivered order totals for one day.
type RevenueRow struct {
	Day         time.Time       `json:"day"`
	OrderCount  int64           `json:"order_count"`
	RevenueFCFA int64           `json:"revenue_fcfa"`
	AvgOrderVal decimal.Decimal `json:"avg_order_value"`
}

// RevenueSummary wraps the per-day rows plus range totals.
type RevenueSummary struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Days        []RevenueRow    `json:"days"`
	OrderCount  int64           `json:"order_count"`
	RevenueFCFA int64           `json:"revenue_fcfa"`
	AvgOrderVal decimal.Decimal `json:"avg_order_value"`
}
