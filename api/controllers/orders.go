package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/arielsonkoue/mboashop-backend/api/responses"
	"github.com/arielsonkoue/mboashop-backend/api/validators"
	"github.com/arielsonkoue/mboashop-backend/internal/orders"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1"`
}

type createOrderRequest struct {
	Guest           *guestBlock        `json:"guest,omitempty"`
	DeliveryAddress *string            `json:"delivery_address,omitempty" validate:"omitempty,min=5,max=500"`
	Note            *string            `json:"note,omitempty" validate:"omitempty,max=1000"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type guestCancelRequest struct {
	Code   string `json:"code" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

type cancelReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

func orderItems(items []orderItemRequest) []orders.CreateItemInput {
	out := make([]orders.CreateItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, orders.CreateItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return out
}

// CreateGuestOrder places a shop order on behalf of an anonymous visitor.
func CreateGuestOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Guest == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "guest contact is required"))
			return
		}
		if req.DeliveryAddress == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required"))
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateInput{
			Guest: &orders.GuestInput{
				Name:  req.Guest.Name,
				Email: req.Guest.Email,
				Phone: req.Guest.Phone,
			},
			DeliveryAddress: req.DeliveryAddress,
			Note:            req.Note,
			Items:           orderItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderDetail(order))
	}
}

// TrackOrder lets a guest look up an order by code and contact email.
func TrackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.URL.Query().Get("code"))
		email := strings.TrimSpace(r.URL.Query().Get("email"))

		order, err := svc.Track(r.Context(), code, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetail(order))
	}
}

// GuestCancelOrder cancels a guest order identified by code and email.
func GuestCancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestCancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GuestCancel(r.Context(), req.Code, req.Email, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetail(order))
	}
}

// CreateMyOrder places a shop order for the authenticated account.
func CreateMyOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// A stray guest block on an authenticated request is ignored; the
		// session identity wins.
		order, err := svc.Create(r.Context(), orders.CreateInput{
			UserID:          &userID,
			DeliveryAddress: req.DeliveryAddress,
			Note:            req.Note,
			Items:           orderItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderDetail(order))
	}
}

// ListMyOrders pages through the authenticated account's orders.
func ListMyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetMyOrder returns one of the authenticated account's orders.
func GetMyOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := urlUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetail(order))
	}
}

// CancelMyOrder cancels one of the authenticated account's orders.
func CancelMyOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := urlUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelReasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelForUser(r.Context(), userID, orderID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetail(order))
	}
}
