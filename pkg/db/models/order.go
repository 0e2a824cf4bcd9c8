package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// Order represents a shop order with frozen item snapshots and cached totals.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode       string            `gorm:"column:order_code;not null;uniqueIndex:idx_orders_order_code"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Guest           GuestContact      `gorm:"embedded"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'TO_PROCESS'"`
	TotalItems      int               `gorm:"column:total_items;not null"`
	TotalPriceFCFA  int               `gorm:"column:total_price_fcfa;not null"`
	DeliveryAddress *string           `gorm:"column:delivery_address"`
	Note            *string           `gorm:"column:note"`
	ShippedAt       *time.Time        `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time        `gorm:"column:delivered_at"`
	CanceledAt      *time.Time        `gorm:"column:canceled_at"`
	CancelReason    *string           `gorm:"column:cancel_reason"`
	CanceledBy      *enums.ActorRole  `gorm:"column:canceled_by;type:actor_role"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsGuest reports whether the order was placed without an account.
func (o Order) IsGuest() bool {
	return o.UserID == nil
}

// OrderItem captures the frozen snapshot of each item within an order.
type OrderItem struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID     *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name          string     `gorm:"column:name;not null"`
	UnitPriceFCFA int        `gorm:"column:unit_price_fcfa;not null"`
	Qty           int        `gorm:"column:qty;not null"`
	TotalFCFA     int        `gorm:"column:total_fcfa;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
