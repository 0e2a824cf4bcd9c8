package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/internal/inventory"
	dbpkg "github.com/arielsonkoue/mboashop-backend/pkg/db"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

const (
	minCancelReasonLen = 5
	maxCodeAttempts    = 3

	orderCodeIndex = "idx_orders_order_code"
)

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	Track(ctx context.Context, code, email string) (*models.Order, error)
	GuestCancel(ctx context.Context, code, email, reason string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	CancelForUser(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error)
	ListAdmin(ctx context.Context, filters Filters, params pagination.Params) (*List, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error)
	CancelStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ServiceConfig carries the lifecycle policy knobs.
type ServiceConfig struct {
	CodePrefix          string
	AdminCancelShipping bool
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	ledger   StockLedger
	notifier EventNotifier
	users    UserDirectory
	cfg      ServiceConfig
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher, ledger StockLedger, notifier EventNotifier, users UserDirectory, cfg ServiceConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("event notifier required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if cfg.CodePrefix == "" {
		cfg.CodePrefix = "MB"
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   ob,
		ledger:   ledger,
		notifier: notifier,
		users:    users,
		cfg:      cfg,
	}, nil
}

// OrderEvent is the payload published for order lifecycle events.
type OrderEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	OrderCode  string            `json:"order_code"`
	Status     enums.OrderStatus `json:"status"`
	TotalItems int               `json:"total_items"`
	TotalFCFA  int               `json:"total_price_fcfa"`
	Reason     *string           `json:"reason,omitempty"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	// Session identity takes priority: a guest block alongside a user id is
	// dropped so the stored order carries exactly one identity.
	if input.UserID != nil && *input.UserID != uuid.Nil {
		input.Guest = nil
	}
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := map[uuid.UUID]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(ids))
	reserveLines := make([]inventory.Line, 0, len(ids))
	totalItems := 0
	totalPrice := 0
	for _, id := range ids {
		product, ok := byID[id]
		if !ok || !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown or inactive product").
				WithDetails(map[string]any{"product_id": id})
		}
		qty := quantities[id]
		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID:     &productID,
			Name:          product.Name,
			UnitPriceFCFA: product.PriceFCFA,
			Qty:           qty,
			TotalFCFA:     product.PriceFCFA * qty,
		})
		totalItems += qty
		totalPrice += product.PriceFCFA * qty
		if product.IsLimited {
			reserveLines = append(reserveLines, inventory.Line{
				ProductID: product.ID,
				Name:      product.Name,
				Qty:       qty,
			})
		}
	}

	var order *models.Order
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode(s.cfg.CodePrefix, time.Now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
		}

		candidate := &models.Order{
			OrderCode:       code,
			UserID:          input.UserID,
			Status:          enums.OrderStatusToProcess,
			TotalItems:      totalItems,
			TotalPriceFCFA:  totalPrice,
			DeliveryAddress: input.DeliveryAddress,
			Note:            input.Note,
			Items:           cloneItems(items),
		}
		if input.Guest != nil {
			candidate.Guest = models.GuestContact{
				Name:  optional(input.Guest.Name),
				Email: optional(input.Guest.Email),
				Phone: optional(input.Guest.Phone),
			}
		}

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.ledger.Reserve(ctx, tx, reserveLines); err != nil {
				return err
			}
			if err := s.repo.WithTx(tx).CreateOrder(ctx, candidate); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   candidate.ID,
				Version:       1,
				Actor:         buildActor(input.UserID, enums.ActorUser),
				Data:          eventFromOrder(candidate, nil),
			})
		})
		if txErr == nil {
			order = candidate
			break
		}
		if dbpkg.IsUniqueViolation(txErr, orderCodeIndex) {
			continue
		}
		return nil, mapLedgerError(txErr)
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique order code")
	}

	s.notifier.OrderCreated(ctx, order)
	return order, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Target == enums.OrderStatusCanceled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation requires a reason; use the cancel operation")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if loaded.Status == input.Target {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status already applied").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if !CanTransition(loaded.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
				WithDetails(map[string]any{"from": loaded.Status, "to": input.Target})
		}

		now := time.Now()
		updates := map[string]any{"status": input.Target}
		switch input.Target {
		case enums.OrderStatusShipping:
			updates["shipped_at"] = now
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
		}

		rows, err := repo.UpdateStatusGuarded(ctx, loaded.ID, *loaded, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}

		if input.Target == enums.OrderStatusDelivered {
			if err := s.ledger.Commit(ctx, tx, stockLines(loaded)); err != nil {
				return err
			}
		}

		loaded.Status = input.Target
		switch input.Target {
		case enums.OrderStatusShipping:
			loaded.ShippedAt = &now
		case enums.OrderStatusDelivered:
			loaded.DeliveredAt = &now
		}
		order = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data:          eventFromOrder(loaded, nil),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderStatusChanged(ctx, order)
	return order, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	reason := strings.TrimSpace(input.Reason)
	if len(reason) < minCancelReasonLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cancel reason must be at least %d characters", minCancelReasonLen))
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor role")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if loaded.CanceledAt != nil || loaded.Status == enums.OrderStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already canceled")
		}
		if !CanCancel(loaded.Status, input.ActorRole, s.cfg.AdminCancelShipping) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation not allowed in current state").
				WithDetails(map[string]any{"status": loaded.Status, "actor": input.ActorRole})
		}

		now := time.Now()
		actor := input.ActorRole
		rows, err := repo.UpdateStatusGuarded(ctx, loaded.ID, *loaded, map[string]any{
			"status":        enums.OrderStatusCanceled,
			"canceled_at":   now,
			"cancel_reason": reason,
			"canceled_by":   actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already canceled")
		}

		// The guarded update above ran at most once, so the restore cannot
		// double-credit stock.
		if err := s.ledger.Restore(ctx, tx, stockLines(loaded)); err != nil {
			return err
		}

		loaded.Status = enums.OrderStatusCanceled
		loaded.CanceledAt = &now
		loaded.CancelReason = &reason
		loaded.CanceledBy = &actor
		order = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         buildActor(input.ActorUserID, input.ActorRole),
			Data:          eventFromOrder(loaded, &reason),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderCanceled(ctx, order)
	return order, nil
}

func (s *service) Track(ctx context.Context, code, email string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code and email are required")
	}

	order, err := s.findOwnedByEmail(ctx, code, email)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) GuestCancel(ctx context.Context, code, email, reason string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code and email are required")
	}

	order, err := s.findOwnedByEmail(ctx, code, email)
	if err != nil {
		return nil, err
	}
	if !order.IsGuest() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to an account")
	}
	return s.Cancel(ctx, CancelInput{
		OrderID:   order.ID,
		Reason:    reason,
		ActorRole: enums.ActorUser,
	})
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByUser(ctx, userID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildList(rows, limit), nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) CancelForUser(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	if _, err := s.GetForUser(ctx, userID, orderID); err != nil {
		return nil, err
	}
	actorID := userID
	return s.Cancel(ctx, CancelInput{
		OrderID:     orderID,
		Reason:      reason,
		ActorRole:   enums.ActorUser,
		ActorUserID: &actorID,
	})
}

func (s *service) ListAdmin(ctx context.Context, filters Filters, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListOrders(ctx, filters, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return buildList(rows, limit), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) Revenue(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must precede to")
	}

	rows, err := s.repo.RevenueByDay(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue query")
	}

	summary := &RevenueSummary{From: from, To: to, Days: make([]RevenueRow, 0, len(rows))}
	for _, row := range rows {
		avg := decimal.Zero
		if row.OrderCount > 0 {
			avg = decimal.NewFromInt(row.RevenueFCFA).
				Div(decimal.NewFromInt(row.OrderCount)).
				Round(2)
		}
		summary.Days = append(summary.Days, RevenueRow{
			Day:         row.Day,
			OrderCount:  row.OrderCount,
			RevenueFCFA: row.RevenueFCFA,
			AvgOrderVal: avg,
		})
		summary.OrderCount += row.OrderCount
		summary.RevenueFCFA += row.RevenueFCFA
	}
	if summary.OrderCount > 0 {
		summary.AvgOrderVal = decimal.NewFromInt(summary.RevenueFCFA).
			Div(decimal.NewFromInt(summary.OrderCount)).
			Round(2)
	}
	return summary, nil
}

func (s *service) CancelStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "stale window must be positive")
	}
	if limit <= 0 {
		limit = 100
	}

	cutoff := time.Now().Add(-olderThan)
	stale, err := s.repo.FindStale(ctx, cutoff, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stale orders")
	}

	reason := fmt.Sprintf("auto-canceled after %d days without processing", int(olderThan.Hours()/24))
	canceled := 0
	var errs error
	for i := range stale {
		_, cancelErr := s.Cancel(ctx, CancelInput{
			OrderID:   stale[i].ID,
			Reason:    reason,
			ActorRole: enums.ActorSystem,
		})
		if cancelErr != nil {
			// A concurrent admin action may have moved the order on; skip it.
			if typed := pkgerrors.As(cancelErr); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
				continue
			}
			errs = multierr.Append(errs, cancelErr)
			continue
		}
		canceled++
	}
	return canceled, errs
}

func (s *service) findOwnedByEmail(ctx context.Context, code, email string) (*models.Order, error) {
	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	ownerEmail := ""
	if order.IsGuest() {
		if order.Guest.Email != nil {
			ownerEmail = *order.Guest.Email
		}
	} else {
		ownerEmail, err = s.users.FindEmailByID(ctx, *order.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order owner")
		}
	}
	// Mismatches read as not-found so the endpoint does not leak order codes.
	if !strings.EqualFold(strings.TrimSpace(ownerEmail), email) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
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

func buildActor(userID *uuid.UUID, role enums.ActorRole) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: userID,
		Role:   role.String(),
	}
}

func eventFromOrder(order *models.Order, reason *string) OrderEvent {
	return OrderEvent{
		OrderID:    order.ID,
		OrderCode:  order.OrderCode,
		Status:     order.Status,
		TotalItems: order.TotalItems,
		TotalFCFA:  order.TotalPriceFCFA,
		Reason:     reason,
	}
}

// stockLines maps order items back onto ledger lines. Products without an
// inventory row no-op inside the ledger, so passing every line is safe.
func stockLines(order *models.Order) []inventory.Line {
	lines := make([]inventory.Line, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		lines = append(lines, inventory.Line{
			ProductID: *item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
		})
	}
	return lines
}

func mapLedgerError(err error) error {
	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, insufficient.Error()).
			WithDetails(map[string]any{
				"product_id":   insufficient.ProductID,
				"product_name": insufficient.ProductName,
				"requested":    insufficient.Requested,
				"available":    insufficient.Available,
			})
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
}

func buildList(rows []models.Order, limit int) *List {
	list := &List{Orders: make([]Summary, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for _, order := range rows {
		list.Orders = append(list.Orders, summarize(order))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list
}

func summarize(order models.Order) Summary {
	name := ""
	if order.Guest.Name != nil {
		name = *order.Guest.Name
	}
	return Summary{
		ID:             order.ID,
		OrderCode:      order.OrderCode,
		Status:         order.Status,
		TotalItems:     order.TotalItems,
		TotalPriceFCFA: order.TotalPriceFCFA,
		CustomerName:   name,
		IsGuest:        order.IsGuest(),
		CreatedAt:      order.CreatedAt,
	}
}

func cloneItems(items []models.OrderItem) []models.OrderItem {
	cloned := make([]models.OrderItem, len(items))
	copy(cloned, items)
	return cloned
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
