package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

// FoodOrder represents a restaurant food order. Unlike shop orders it never
// touches the inventory ledger.
type FoodOrder struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode       string                `gorm:"column:order_code;not null;uniqueIndex:idx_food_orders_order_code"`
	UserID          *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	Guest           GuestContact          `gorm:"embedded"`
	Status          enums.FoodOrderStatus `gorm:"column:status;type:food_order_status;not null;default:'PENDING'"`
	TotalItems      int                   `gorm:"column:total_items;not null"`
	TotalPriceFCFA  int                   `gorm:"column:total_price_fcfa;not null"`
	DeliveryAddress *string               `gorm:"column:delivery_address"`
	Note            *string               `gorm:"column:note"`
	PaymentProofURL *string               `gorm:"column:payment_proof_url"`
	PreparingAt     *time.Time            `gorm:"column:preparing_at"`
	DeliveredAt     *time.Time            `gorm:"column:delivered_at"`
	CanceledAt      *time.Time            `gorm:"column:canceled_at"`
	CancelReason    *string               `gorm:"column:cancel_reason"`
	CanceledBy      *enums.ActorRole      `gorm:"column:canceled_by;type:actor_role"`
	Items           []FoodOrderItem       `gorm:"foreignKey:FoodOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// IsGuest reports whether the food order was placed without an account.
func (f FoodOrder) IsGuest() bool {
	return f.UserID == nil
}

// FoodOrderItem captures the frozen snapshot of each dish within a food order.
type FoodOrderItem struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FoodOrderID   uuid.UUID  `gorm:"column:food_order_id;type:uuid;not null"`
	ProductID     *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name          string     `gorm:"column:name;not null"`
	UnitPriceFCFA int        `gorm:"column:unit_price_fcfa;not null"`
	Qty           int        `gorm:"column:qty;not null"`
	TotalFCFA     int        `gorm:"column:total_fcfa;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
