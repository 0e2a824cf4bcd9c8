package controllers

import (
	"net/http"
	"strings"

	"github.com/arielsonkoue/mboashop-backend/api/responses"
	"github.com/arielsonkoue/mboashop-backend/api/validators"
	"github.com/arielsonkoue/mboashop-backend/internal/restaurant"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/logger"
)

type updateFoodOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminListBookings pages through table bookings with optional filters.
func AdminListBookings(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters restaurant.BookingFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseBookingStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		filters.DateFrom, filters.DateTo, err = dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookings, next, err := svc.ListBookings(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]bookingDetailResponse, 0, len(bookings))
		for i := range bookings {
			items = append(items, bookingDetail(&bookings[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"bookings":    items,
			"next_cursor": next,
		})
	}
}

// AdminGetBooking returns a single booking.
func AdminGetBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := urlUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		booking, err := svc.GetBooking(r.Context(), bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookingDetail(booking))
	}
}

// AdminConfirmBooking moves a pending booking to CONFIRMED.
func AdminConfirmBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := urlUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.ConfirmBooking(r.Context(), bookingID, &actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookingDetail(booking))
	}
}

// AdminCancelBooking cancels a booking with an audit reason.
func AdminCancelBooking(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := urlUUID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelReasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.CancelBooking(r.Context(), restaurant.CancelBookingInput{
			BookingID:   bookingID,
			Reason:      req.Reason,
			ActorRole:   enums.ActorAdmin,
			ActorUserID: &actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookingDetail(booking))
	}
}

// AdminListFoodOrders pages through food orders with optional filters.
func AdminListFoodOrders(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters restaurant.FoodOrderFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseFoodOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		filters.DateFrom, filters.DateTo, err = dateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodOrders, next, err := svc.ListFoodOrders(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]foodOrderDetailResponse, 0, len(foodOrders))
		for i := range foodOrders {
			items = append(items, foodOrderDetail(&foodOrders[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"food_orders": items,
			"next_cursor": next,
		})
	}
}

// AdminGetFoodOrder returns a single food order.
func AdminGetFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodOrderID, err := urlUUID(r, "foodOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetFoodOrder(r.Context(), foodOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foodOrderDetail(order))
	}
}

// AdminUpdateFoodOrderStatus advances a food order along the kitchen lifecycle.
func AdminUpdateFoodOrderStatus(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodOrderID, err := urlUUID(r, "foodOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateFoodOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseFoodOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid target status"))
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.TransitionFoodOrder(r.Context(), foodOrderID, target, &actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foodOrderDetail(order))
	}
}

// AdminCancelFoodOrder cancels a food order with an audit reason.
func AdminCancelFoodOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		foodOrderID, err := urlUUID(r, "foodOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cancelReasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelFoodOrder(r.Context(), restaurant.CancelFoodOrderInput{
			FoodOrderID: foodOrderID,
			Reason:      req.Reason,
			ActorRole:   enums.ActorAdmin,
			ActorUserID: &actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, foodOrderDetail(order))
	}
}
