package restaurant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/internal/orders"
	dbpkg "github.com/arielsonkoue/mboashop-backend/pkg/db"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

const (
	bookingCodePrefix   = "BK"
	foodOrderCodePrefix = "FD"

	minCancelReasonLen = 5
	maxCodeAttempts    = 3

	bookingCodeIndex   = "idx_table_bookings_booking_code"
	foodOrderCodeIndex = "idx_food_orders_order_code"
)

// Service defines the restaurant booking and food order operations.
type Service interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.TableBooking, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID, actorUserID *uuid.UUID) (*models.TableBooking, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*models.TableBooking, error)
	GuestCancelBooking(ctx context.Context, code, email, reason string) (*models.TableBooking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.TableBooking, error)
	ListBookings(ctx context.Context, filters BookingFilters, params pagination.Params) ([]models.TableBooking, string, error)

	CreateFoodOrder(ctx context.Context, input CreateFoodOrderInput) (*models.FoodOrder, error)
	TransitionFoodOrder(ctx context.Context, id uuid.UUID, target enums.FoodOrderStatus, actorUserID *uuid.UUID) (*models.FoodOrder, error)
	CancelFoodOrder(ctx context.Context, input CancelFoodOrderInput) (*models.FoodOrder, error)
	GuestCancelFoodOrder(ctx context.Context, code, email, reason string) (*models.FoodOrder, error)
	TrackFoodOrder(ctx context.Context, code, email string) (*models.FoodOrder, error)
	GetFoodOrder(ctx context.Context, id uuid.UUID) (*models.FoodOrder, error)
	ListFoodOrders(ctx context.Context, filters FoodOrderFilters, params pagination.Params) ([]models.FoodOrder, string, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	notifier EventNotifier
}

// NewService builds a restaurant service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, notifier EventNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("event notifier required")
	}
	return &service{repo: repo, tx: tx, outbox: ob, notifier: notifier}, nil
}

// BookingEvent is the payload published for booking lifecycle events.
type BookingEvent struct {
	BookingID   uuid.UUID           `json:"booking_id"`
	BookingCode string              `json:"booking_code"`
	Status      enums.BookingStatus `json:"status"`
	PartySize   int                 `json:"party_size"`
	BookingAt   time.Time           `json:"booking_at"`
	Reason      *string             `json:"reason,omitempty"`
}

// FoodOrderEvent is the payload published for food order lifecycle events.
type FoodOrderEvent struct {
	FoodOrderID uuid.UUID             `json:"food_order_id"`
	OrderCode   string                `json:"order_code"`
	Status      enums.FoodOrderStatus `json:"status"`
	TotalItems  int                   `json:"total_items"`
	TotalFCFA   int                   `json:"total_price_fcfa"`
	Reason      *string               `json:"reason,omitempty"`
}

func (s *service) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.TableBooking, error) {
	if err := validateIdentity(input.UserID, input.Guest); err != nil {
		return nil, err
	}
	if input.PartySize <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party size must be positive")
	}
	if input.BookingAt.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking time must be in the future")
	}

	var booking *models.TableBooking
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := orders.GenerateCode(bookingCodePrefix, time.Now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate booking code")
		}

		candidate := &models.TableBooking{
			BookingCode:     code,
			UserID:          input.UserID,
			Status:          enums.BookingStatusPending,
			PartySize:       input.PartySize,
			BookingAt:       input.BookingAt,
			Note:            input.Note,
			PaymentProofURL: input.PaymentProofURL,
		}
		if input.Guest != nil {
			candidate.Guest = guestContact(input.Guest)
		}

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).CreateBooking(ctx, candidate); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventBookingCreated,
				AggregateType: enums.AggregateTableBooking,
				AggregateID:   candidate.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.UserID, Role: enums.ActorUser.String()},
				Data:          bookingEvent(candidate, nil),
			})
		})
		if txErr == nil {
			booking = candidate
			break
		}
		if dbpkg.IsUniqueViolation(txErr, bookingCodeIndex) {
			continue
		}
		return nil, wrapUnlessTyped(txErr, "create booking")
	}
	if booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique booking code")
	}

	s.notifier.BookingCreated(ctx, booking)
	return booking, nil
}

func (s *service) ConfirmBooking(ctx context.Context, id uuid.UUID, actorUserID *uuid.UUID) (*models.TableBooking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	var booking *models.TableBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindBookingByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if loaded.Status == enums.BookingStatusConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already confirmed")
		}
		if !CanTransitionBooking(loaded.Status, enums.BookingStatusConfirmed) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking cannot be confirmed in current state").
				WithDetails(map[string]any{"status": loaded.Status})
		}

		now := time.Now()
		rows, err := repo.UpdateBookingGuarded(ctx, loaded.ID, *loaded, map[string]any{
			"status":       enums.BookingStatusConfirmed,
			"confirmed_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm booking")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking changed concurrently")
		}

		loaded.Status = enums.BookingStatusConfirmed
		loaded.ConfirmedAt = &now
		booking = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingConfirmed,
			AggregateType: enums.AggregateTableBooking,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: actorUserID, Role: enums.ActorAdmin.String()},
			Data:          bookingEvent(loaded, nil),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingStatusChanged(ctx, booking)
	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, input CancelBookingInput) (*models.TableBooking, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	reason, err := normalizeReason(input.Reason)
	if err != nil {
		return nil, err
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}

	var booking *models.TableBooking
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindBookingByID(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if loaded.CanceledAt != nil || loaded.Status == enums.BookingStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already canceled")
		}
		if !CanCancelBooking(loaded.Status, input.ActorRole) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation not allowed in current state").
				WithDetails(map[string]any{"status": loaded.Status, "actor": input.ActorRole})
		}

		now := time.Now()
		actor := input.ActorRole
		rows, err := repo.UpdateBookingGuarded(ctx, loaded.ID, *loaded, map[string]any{
			"status":        enums.BookingStatusCanceled,
			"canceled_at":   now,
			"cancel_reason": reason,
			"canceled_by":   actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel booking")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already canceled")
		}

		loaded.Status = enums.BookingStatusCanceled
		loaded.CanceledAt = &now
		loaded.CancelReason = &reason
		loaded.CanceledBy = &actor
		booking = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingCanceled,
			AggregateType: enums.AggregateTableBooking,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: input.ActorRole.String()},
			Data:          bookingEvent(loaded, &reason),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingCanceled(ctx, booking)
	return booking, nil
}

func (s *service) GuestCancelBooking(ctx context.Context, code, email, reason string) (*models.TableBooking, error) {
	booking, err := s.findBookingOwnedByEmail(ctx, code, email)
	if err != nil {
		return nil, err
	}
	return s.CancelBooking(ctx, CancelBookingInput{
		BookingID: booking.ID,
		Reason:    reason,
		ActorRole: enums.ActorUser,
	})
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*models.TableBooking, error) {
	booking, err := s.repo.FindBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, filters BookingFilters, params pagination.Params) ([]models.TableBooking, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListBookings(ctx, filters, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) CreateFoodOrder(ctx context.Context, input CreateFoodOrderInput) (*models.FoodOrder, error) {
	if err := validateIdentity(input.UserID, input.Guest); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	quantities := map[uuid.UUID]int{}
	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Qty
	}

	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dishes")
	}
	byID := map[uuid.UUID]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.FoodOrderItem, 0, len(ids))
	totalItems := 0
	totalPrice := 0
	for _, id := range ids {
		product, ok := byID[id]
		if !ok || !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown or inactive dish").
				WithDetails(map[string]any{"product_id": id})
		}
		qty := quantities[id]
		productID := product.ID
		items = append(items, models.FoodOrderItem{
			ProductID:     &productID,
			Name:          product.Name,
			UnitPriceFCFA: product.PriceFCFA,
			Qty:           qty,
			TotalFCFA:     product.PriceFCFA * qty,
		})
		totalItems += qty
		totalPrice += product.PriceFCFA * qty
	}

	var order *models.FoodOrder
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := orders.GenerateCode(foodOrderCodePrefix, time.Now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate food order code")
		}

		candidate := &models.FoodOrder{
			OrderCode:       code,
			UserID:          input.UserID,
			Status:          enums.FoodOrderStatusPending,
			TotalItems:      totalItems,
			TotalPriceFCFA:  totalPrice,
			DeliveryAddress: input.DeliveryAddress,
			Note:            input.Note,
			PaymentProofURL: input.PaymentProofURL,
			Items:           append([]models.FoodOrderItem{}, items...),
		}
		if input.Guest != nil {
			candidate.Guest = guestContact(input.Guest)
		}

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).CreateFoodOrder(ctx, candidate); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventFoodOrderCreated,
				AggregateType: enums.AggregateFoodOrder,
				AggregateID:   candidate.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.UserID, Role: enums.ActorUser.String()},
				Data:          foodOrderEvent(candidate, nil),
			})
		})
		if txErr == nil {
			order = candidate
			break
		}
		if dbpkg.IsUniqueViolation(txErr, foodOrderCodeIndex) {
			continue
		}
		return nil, wrapUnlessTyped(txErr, "create food order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique food order code")
	}

	s.notifier.FoodOrderCreated(ctx, order)
	return order, nil
}

func (s *service) TransitionFoodOrder(ctx context.Context, id uuid.UUID, target enums.FoodOrderStatus, actorUserID *uuid.UUID) (*models.FoodOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food order id required")
	}
	if target == enums.FoodOrderStatusCanceled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation requires a reason; use the cancel operation")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	var order *models.FoodOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindFoodOrderByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "food order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food order")
		}
		if loaded.Status == target {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status already applied").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if !CanTransitionFoodOrder(loaded.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
				WithDetails(map[string]any{"from": loaded.Status, "to": target})
		}

		now := time.Now()
		updates := map[string]any{"status": target}
		switch target {
		case enums.FoodOrderStatusPreparing:
			updates["preparing_at"] = now
		case enums.FoodOrderStatusDelivered:
			updates["delivered_at"] = now
		}

		rows, err := repo.UpdateFoodOrderGuarded(ctx, loaded.ID, *loaded, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "food order changed concurrently")
		}

		loaded.Status = target
		switch target {
		case enums.FoodOrderStatusPreparing:
			loaded.PreparingAt = &now
		case enums.FoodOrderStatusDelivered:
			loaded.DeliveredAt = &now
		}
		order = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventFoodOrderStatusChanged,
			AggregateType: enums.AggregateFoodOrder,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: actorUserID, Role: enums.ActorAdmin.String()},
			Data:          foodOrderEvent(loaded, nil),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.FoodOrderStatusChanged(ctx, order)
	return order, nil
}

func (s *service) CancelFoodOrder(ctx context.Context, input CancelFoodOrderInput) (*models.FoodOrder, error) {
	if input.FoodOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food order id required")
	}
	reason, err := normalizeReason(input.Reason)
	if err != nil {
		return nil, err
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}

	var order *models.FoodOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindFoodOrderByID(ctx, input.FoodOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "food order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food order")
		}
		if loaded.CanceledAt != nil || loaded.Status == enums.FoodOrderStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "food order already canceled")
		}
		if !CanCancelFoodOrder(loaded.Status, input.ActorRole) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation not allowed in current state").
				WithDetails(map[string]any{"status": loaded.Status, "actor": input.ActorRole})
		}

		now := time.Now()
		actor := input.ActorRole
		rows, err := repo.UpdateFoodOrderGuarded(ctx, loaded.ID, *loaded, map[string]any{
			"status":        enums.FoodOrderStatusCanceled,
			"canceled_at":   now,
			"cancel_reason": reason,
			"canceled_by":   actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel food order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "food order already canceled")
		}

		loaded.Status = enums.FoodOrderStatusCanceled
		loaded.CanceledAt = &now
		loaded.CancelReason = &reason
		loaded.CanceledBy = &actor
		order = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventFoodOrderCanceled,
			AggregateType: enums.AggregateFoodOrder,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: input.ActorRole.String()},
			Data:          foodOrderEvent(loaded, &reason),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.FoodOrderCanceled(ctx, order)
	return order, nil
}

func (s *service) GuestCancelFoodOrder(ctx context.Context, code, email, reason string) (*models.FoodOrder, error) {
	order, err := s.findFoodOrderOwnedByEmail(ctx, code, email)
	if err != nil {
		return nil, err
	}
	return s.CancelFoodOrder(ctx, CancelFoodOrderInput{
		FoodOrderID: order.ID,
		Reason:      reason,
		ActorRole:   enums.ActorUser,
	})
}

func (s *service) TrackFoodOrder(ctx context.Context, code, email string) (*models.FoodOrder, error) {
	return s.findFoodOrderOwnedByEmail(ctx, code, email)
}

func (s *service) GetFoodOrder(ctx context.Context, id uuid.UUID) (*models.FoodOrder, error) {
	order, err := s.repo.FindFoodOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food order")
	}
	return order, nil
}

func (s *service) ListFoodOrders(ctx context.Context, filters FoodOrderFilters, params pagination.Params) ([]models.FoodOrder, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListFoodOrders(ctx, filters, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list food orders")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

func (s *service) findBookingOwnedByEmail(ctx context.Context, code, email string) (*models.TableBooking, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking code and email are required")
	}

	booking, err := s.repo.FindBookingByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if !booking.IsGuest() || booking.Guest.Email == nil || !strings.EqualFold(*booking.Guest.Email, email) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

func (s *service) findFoodOrderOwnedByEmail(ctx context.Context, code, email string) (*models.FoodOrder, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code and email are required")
	}

	order, err := s.repo.FindFoodOrderByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food order")
	}
	if !order.IsGuest() || order.Guest.Email == nil || !strings.EqualFold(*order.Guest.Email, email) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "food order not found")
	}
	return order, nil
}

func validateIdentity(userID *uuid.UUID, guest *GuestInput) error {
	hasUser := userID != nil && *userID != uuid.Nil
	hasGuest := guest != nil && strings.TrimSpace(guest.Email) != ""
	if hasUser == hasGuest {
		return pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user identity or guest contact is required")
	}
	return nil
}

func guestContact(guest *GuestInput) models.GuestContact {
	return models.GuestContact{
		Name:  optional(guest.Name),
		Email: optional(guest.Email),
		Phone: optional(guest.Phone),
	}
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minCancelReasonLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cancel reason must be at least %d characters", minCancelReasonLen))
	}
	return reason, nil
}

func wrapUnlessTyped(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func bookingEvent(booking *models.TableBooking, reason *string) BookingEvent {
	return BookingEvent{
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		Status:      booking.Status,
		PartySize:   booking.PartySize,
		BookingAt:   booking.BookingAt,
		Reason:      reason,
	}
}

func foodOrderEvent(order *models.FoodOrder, reason *string) FoodOrderEvent {
	return FoodOrderEvent{
		FoodOrderID: order.ID,
		OrderCode:   order.OrderCode,
		Status:      order.Status,
		TotalItems:  order.TotalItems,
		TotalFCFA:   order.TotalPriceFCFA,
		Reason:      reason,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
