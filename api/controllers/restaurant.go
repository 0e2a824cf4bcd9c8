package controllers

import (
	"net/http"
	"time"

	"github.com/arielsonkoue/mboashop-backend/api/responses"
	"github.com/arielsonkoue/mboashop-backend/api/validators"
	"github.com/arielsonkoue/mboashop-backend/internal/restaurant"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

type createBookingRequest struct {
	Guest           *guestBlock `json:"guest,omitempty"`
	PartySize       int         `json:"party_size" validate:"required,min=1,max=50"`
	BookingAt       time.Time   `json:"booking_at" validate:"required"`
	Note            *string     `json:"note,omitempty" validate:"omitempty,max=1000"`
	PaymentProofURL *string     `json:"payment_proof_url,omitempty" validate:"omitempty,url"`
}

type createFoodOrderRequest struct {
	Guest           *guestBlock        `json:"guest,omitempty"`
	DeliveryAddress *string            `json:"delivery_address,omitempty" validate:"omitempty,min=5,max=500"`
	Note            *string            `json:"note,omitempty" validate:"omitempty,max=1000"`
	PaymentProofURL *string            `json:"payment_proof_url,omitempty" validate:"omitempty,url"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func guestInput(block *guestBlock) *restaurant.GuestInput {
	if block == nil {
		return nil
	}
	return &restaurant.GuestInput{
		Name:  block.Name,
		Email: block.Email,
		Phone: block.Phone,
	}
}

// CreateGuestBooking requests a table on behalf of an anonymous visitor.
func CreateGuestBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Guest == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "guest contact is required"))
			return
		}

		booking, err := svc.CreateBooking(r.Context(), restaurant.CreateBookingInput{
			Guest:           guestInput(req.Guest),
			PartySize:       req.PartySize,
			BookingAt:       req.BookingAt,
			Note:            req.Note,
			PaymentProofURL: req.PaymentProofURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bookingDetail(booking))
	}
}

// CreateMyBooking requests a table for the authenticated account.
func CreateMyBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createBookingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Guest != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "guest contact is not allowed on account bookings"))
			return
		}

		booking, err := svc.CreateBooking(r.Context(), restaurant.CreateBookingInput{
			UserID:          &userID,
			PartySize:       req.PartySize,
			BookingAt:       req.BookingAt,
			Note:            req.Note,
			PaymentProofURL: req.PaymentProofURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bookingDetail(booking))
	}
}

// GuestCancelBooking cancels a guest booking identified by code and email.
func GuestCancelBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestCancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		booking, err := svc.GuestCancelBooking(r.Context(), req.Code, req.Email, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookingDetail(booking))
	}
}

// CreateGuestFoodOrder places a food order on behalf of an anonymous visitor.
func CreateGuestFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFoodOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Guest == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "guest contact is required"))
			return
		}

		order, err := svc.CreateFoodOrder(r.Context(), restaurant.CreateFoodOrderInput{
			Guest:           guestInput(req.Guest),
			DeliveryAddress: req.DeliveryAddress,
			Note:            req.Note,
			PaymentProofURL: req.PaymentProofURL,
			Items:           foodItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, foodOrderDetail(order))
	}
}

// CreateMyFoodOrder places a food order for the authenticated account.
func CreateMyFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createFoodOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Guest != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "guest contact is not allowed on account orders"))
			return
		}

		order, err := svc.CreateFoodOrder(r.Context(), restaurant.CreateFoodOrderInput{
			UserID:          &userID,
			DeliveryAddress: req.DeliveryAddress,
			Note:            req.Note,
			PaymentProofURL: req.PaymentProofURL,
			Items:           foodItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, foodOrderDetail(order))
	}
}

// TrackFoodOrder lets a guest look up a food order by code and contact email.
func TrackFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		email := r.URL.Query().Get("email")

		order, err := svc.TrackFoodOrder(r.Context(), code, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foodOrderDetail(order))
	}
}

// GuestCancelFoodOrder cancels a guest food order identified by code and email.
func GuestCancelFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestCancelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GuestCancelFoodOrder(r.Context(), req.Code, req.Email, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foodOrderDetail(order))
	}
}

func foodItems(items []orderItemRequest) []restaurant.CreateFoodItemInput {
	out := make([]restaurant.CreateFoodItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, restaurant.CreateFoodItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return out
}
