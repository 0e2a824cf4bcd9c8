package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

type guestBlock struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=6,max=20"`
}

type guestContactResponse struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type orderItemResponse struct {
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	Name          string     `json:"name"`
	UnitPriceFCFA int        `json:"unit_price_fcfa"`
	Qty           int        `json:"qty"`
	TotalFCFA     int        `json:"total_fcfa"`
}

type orderDetailResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderCode       string                `json:"order_code"`
	Status          enums.OrderStatus     `json:"status"`
	IsGuest         bool                  `json:"is_guest"`
	Guest           *guestContactResponse `json:"guest,omitempty"`
	TotalItems      int                   `json:"total_items"`
	TotalPriceFCFA  int                   `json:"total_price_fcfa"`
	DeliveryAddress *string               `json:"delivery_address,omitempty"`
	Note            *string               `json:"note,omitempty"`
	Items           []orderItemResponse   `json:"items"`
	ShippedAt       *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CanceledAt      *time.Time            `json:"canceled_at,omitempty"`
	CancelReason    *string               `json:"cancel_reason,omitempty"`
	CanceledBy      *enums.ActorRole      `json:"canceled_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func orderDetail(order *models.Order) orderDetailResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPriceFCFA: item.UnitPriceFCFA,
			Qty:           item.Qty,
			TotalFCFA:     item.TotalFCFA,
		})
	}
	resp := orderDetailResponse{
		ID:              order.ID,
		OrderCode:       order.OrderCode,
		Status:          order.Status,
		IsGuest:         order.IsGuest(),
		TotalItems:      order.TotalItems,
		TotalPriceFCFA:  order.TotalPriceFCFA,
		DeliveryAddress: order.DeliveryAddress,
		Note:            order.Note,
		Items:           items,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		CanceledAt:      order.CanceledAt,
		CancelReason:    order.CancelReason,
		CanceledBy:      order.CanceledBy,
		CreatedAt:       order.CreatedAt,
	}
	if order.IsGuest() {
		resp.Guest = &guestContactResponse{
			Name:  order.Guest.Name,
			Email: order.Guest.Email,
			Phone: order.Guest.Phone,
		}
	}
	return resp
}

type bookingDetailResponse struct {
	ID              uuid.UUID             `json:"id"`
	BookingCode     string                `json:"booking_code"`
	Status          enums.BookingStatus   `json:"status"`
	IsGuest         bool                  `json:"is_guest"`
	Guest           *guestContactResponse `json:"guest,omitempty"`
	PartySize       int                   `json:"party_size"`
	BookingAt       time.Time             `json:"booking_at"`
	Note            *string               `json:"note,omitempty"`
	PaymentProofURL *string               `json:"payment_proof_url,omitempty"`
	ConfirmedAt     *time.Time            `json:"confirmed_at,omitempty"`
	CanceledAt      *time.Time            `json:"canceled_at,omitempty"`
	CancelReason    *string               `json:"cancel_reason,omitempty"`
	CanceledBy      *enums.ActorRole      `json:"canceled_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func bookingDetail(booking *models.TableBooking) bookingDetailResponse {
	resp := bookingDetailResponse{
		ID:              booking.ID,
		BookingCode:     booking.BookingCode,
		Status:          booking.Status,
		IsGuest:         booking.IsGuest(),
		PartySize:       booking.PartySize,
		BookingAt:       booking.BookingAt,
		Note:            booking.Note,
		PaymentProofURL: booking.PaymentProofURL,
		ConfirmedAt:     booking.ConfirmedAt,
		CanceledAt:      booking.CanceledAt,
		CancelReason:    booking.CancelReason,
		CanceledBy:      booking.CanceledBy,
		CreatedAt:       booking.CreatedAt,
	}
	if booking.IsGuest() {
		resp.Guest = &guestContactResponse{
			Name:  booking.Guest.Name,
			Email: booking.Guest.Email,
			Phone: booking.Guest.Phone,
		}
	}
	return resp
}

type foodOrderDetailResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderCode       string                `json:"order_code"`
	Status          enums.FoodOrderStatus `json:"status"`
	IsGuest         bool                  `json:"is_guest"`
	Guest           *guestContactResponse `json:"guest,omitempty"`
	TotalItems      int                   `json:"total_items"`
	TotalPriceFCFA  int                   `json:"total_price_fcfa"`
	DeliveryAddress *string               `json:"delivery_address,omitempty"`
	Note            *string               `json:"note,omitempty"`
	PaymentProofURL *string               `json:"payment_proof_url,omitempty"`
	Items           []orderItemResponse   `json:"items"`
	PreparingAt     *time.Time            `json:"preparing_at,omitempty"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CanceledAt      *time.Time            `json:"canceled_at,omitempty"`
	CancelReason    *string               `json:"cancel_reason,omitempty"`
	CanceledBy      *enums.ActorRole      `json:"canceled_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func foodOrderDetail(order *models.FoodOrder) foodOrderDetailResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPriceFCFA: item.UnitPriceFCFA,
			Qty:           item.Qty,
			TotalFCFA:     item.TotalFCFA,
		})
	}
	resp := foodOrderDetailResponse{
		ID:              order.ID,
		OrderCode:       order.OrderCode,
		Status:          order.Status,
		IsGuest:         order.IsGuest(),
		TotalItems:      order.TotalItems,
		TotalPriceFCFA:  order.TotalPriceFCFA,
		DeliveryAddress: order.DeliveryAddress,
		Note:            order.Note,
		PaymentProofURL: order.PaymentProofURL,
		Items:           items,
		PreparingAt:     order.PreparingAt,
		DeliveredAt:     order.DeliveredAt,
		CanceledAt:      order.CanceledAt,
		CancelReason:    order.CancelReason,
		CanceledBy:      order.CanceledBy,
		CreatedAt:       order.CreatedAt,
	}
	if order.IsGuest() {
		resp.Guest = &guestContactResponse{
			Name:  order.Guest.Name,
			Email: order.Guest.Email,
			Phone: order.Guest.Phone,
		}
	}
	return resp
}
