package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/internal/inventory"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

type stubRepo struct {
	products map[uuid.UUID]models.Product
	orders   map[uuid.UUID]*models.Order
	byCode   map[string]*models.Order

	createFn       func(ctx context.Context, order *models.Order) error
	updateRows     int64
	updateErr      error
	updateCalls    []map[string]any
	listOrdersRows []models.Order
	listByUserRows []models.Order
	staleRows      []models.Order
	revenueRows    []revenueDBRow
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products:   map[uuid.UUID]models.Product{},
		orders:     map[uuid.UUID]*models.Order{},
		byCode:     map[string]*models.Order{},
		updateRows: 1,
	}
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if r.createFn != nil {
		return r.createFn(ctx, order)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	r.byCode[order.OrderCode] = order
	return nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubRepo) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	order, ok := r.byCode[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubRepo) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from models.Order, updates map[string]any) (int64, error) {
	r.updateCalls = append(r.updateCalls, updates)
	return r.updateRows, r.updateErr
}

func (r *stubRepo) ListOrders(ctx context.Context, filters Filters, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return r.listOrdersRows, nil
}

func (r *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return r.listByUserRows, nil
}

func (r *stubRepo) FindStale(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	return r.staleRows, nil
}

func (r *stubRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]revenueDBRow, error) {
	return r.revenueRows, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubLedger struct {
	reserveErr  error
	reserved    [][]inventory.Line
	restored    [][]inventory.Line
	committed   [][]inventory.Line
	restoreErr  error
	commitError error
}

func (l *stubLedger) Reserve(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error {
	if l.reserveErr != nil {
		return l.reserveErr
	}
	l.reserved = append(l.reserved, lines)
	return nil
}

func (l *stubLedger) Restore(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error {
	if l.restoreErr != nil {
		return l.restoreErr
	}
	l.restored = append(l.restored, lines)
	return nil
}

func (l *stubLedger) Commit(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error {
	if l.commitError != nil {
		return l.commitError
	}
	l.committed = append(l.committed, lines)
	return nil
}

type stubNotifier struct {
	created  []*models.Order
	status   []*models.Order
	canceled []*models.Order
}

func (n *stubNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	n.created = append(n.created, order)
}

func (n *stubNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) {
	n.status = append(n.status, order)
}

func (n *stubNotifier) OrderCanceled(ctx context.Context, order *models.Order) {
	n.canceled = append(n.canceled, order)
}

type stubDirectory struct {
	emails map[uuid.UUID]string
}

func (d *stubDirectory) FindEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	if email, ok := d.emails[id]; ok {
		return email, nil
	}
	return "", gorm.ErrRecordNotFound
}

type fixture struct {
	repo      *stubRepo
	outbox    *stubOutbox
	ledger    *stubLedger
	notifier  *stubNotifier
	directory *stubDirectory
	svc       Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newStubRepo(),
		outbox:    &stubOutbox{},
		ledger:    &stubLedger{},
		notifier:  &stubNotifier{},
		directory: &stubDirectory{emails: map[uuid.UUID]string{}},
	}
	svc, err := NewService(f.repo, stubTx{}, f.outbox, f.ledger, f.notifier, f.directory, ServiceConfig{
		CodePrefix:          "MB",
		AdminCancelShipping: true,
	})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	f.svc = svc
	return f
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func (f *fixture) addProduct(name string, price int, limited bool) uuid.UUID {
	id := uuid.New()
	f.repo.products[id] = models.Product{
		ID:        id,
		Name:      name,
		PriceFCFA: price,
		IsLimited: limited,
		IsActive:  true,
	}
	return id
}

func guest() *GuestInput {
	return &GuestInput{Name: "Ariane N.", Email: "ariane@example.cm", Phone: "+237650000001"}
}

func TestCreateGuestOrderFreezesSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	limitedID := f.addProduct("Honey 500g", 4500, true)
	unlimitedID := f.addProduct("Spice mix", 1500, false)

	order, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{
			{ProductID: limitedID, Qty: 2},
			{ProductID: unlimitedID, Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if order.Status != enums.OrderStatusToProcess {
		t.Fatalf("expected TO_PROCESS, got %s", order.Status)
	}
	if order.TotalItems != 5 {
		t.Fatalf("expected 5 total items, got %d", order.TotalItems)
	}
	if want := 2*4500 + 3*1500; order.TotalPriceFCFA != want {
		t.Fatalf("expected total %d, got %d", want, order.TotalPriceFCFA)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 item snapshots, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.UnitPriceFCFA*item.Qty != item.TotalFCFA {
			t.Fatalf("snapshot totals inconsistent: %+v", item)
		}
	}

	// Only the limited product reserves stock.
	if len(f.ledger.reserved) != 1 || len(f.ledger.reserved[0]) != 1 {
		t.Fatalf("expected one reservation with one line, got %+v", f.ledger.reserved)
	}
	if f.ledger.reserved[0][0].ProductID != limitedID {
		t.Fatalf("expected reservation for limited product")
	}

	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected one order_created outbox event, got %+v", f.outbox.events)
	}
	if len(f.notifier.created) != 1 {
		t.Fatalf("expected notifier call, got %d", len(f.notifier.created))
	}
}

func TestCreateMergesDuplicateLines(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	productID := f.addProduct("Honey 500g", 4500, true)
	order, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{
			{ProductID: productID, Qty: 1},
			{ProductID: productID, Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Qty != 3 {
		t.Fatalf("expected merged line with qty 3, got %+v", order.Items)
	}
}

func TestCreateIdentityValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	productID := f.addProduct("Honey 500g", 4500, false)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Items: []CreateItemInput{{ProductID: productID, Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSessionIdentityOverridesGuestBlock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	productID := f.addProduct("Honey 500g", 4500, false)
	userID := uuid.New()

	order, err := f.svc.Create(context.Background(), CreateInput{
		UserID: &userID,
		Guest:  guest(),
		Items:  []CreateItemInput{{ProductID: productID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if order.UserID == nil || *order.UserID != userID {
		t.Fatalf("expected order owned by %s, got %+v", userID, order.UserID)
	}
	if order.IsGuest() {
		t.Fatal("expected account order, got guest order")
	}
	if order.Guest.Name != nil || order.Guest.Email != nil || order.Guest.Phone != nil {
		t.Fatalf("guest contact must be dropped when a session is present, got %+v", order.Guest)
	}
}

func TestCreateRejectsUnknownAndInactiveProducts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	inactiveID := uuid.New()
	f.repo.products[inactiveID] = models.Product{ID: inactiveID, Name: "Old stock", PriceFCFA: 100, IsActive: false}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: uuid.New(), Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: inactiveID, Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateInsufficientStock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	productID := f.addProduct("Honey 500g", 4500, true)
	f.ledger.reserveErr = &inventory.InsufficientStockError{
		ProductID:   productID,
		ProductName: "Honey 500g",
		Requested:   4,
		Available:   1,
	}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: productID, Qty: 4}},
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.notifier.created) != 0 {
		t.Fatal("notifier must not fire on failed create")
	}
}

func TestCreateRetriesOnDuplicateCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	productID := f.addProduct("Honey 500g", 4500, false)
	attempts := 0
	f.repo.createFn = func(ctx context.Context, order *models.Order) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf(`duplicate key value violates unique constraint "%s"`, orderCodeIndex)
		}
		order.ID = uuid.New()
		return nil
	}

	order, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: productID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if order == nil {
		t.Fatal("expected order after retry")
	}
}

func TestCreateGivesUpAfterMaxCodeAttempts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	productID := f.addProduct("Honey 500g", 4500, false)
	f.repo.createFn = func(ctx context.Context, order *models.Order) error {
		return fmt.Errorf(`duplicate key value violates unique constraint "%s"`, orderCodeIndex)
	}

	_, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: productID, Qty: 1}},
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func seedOrder(f *fixture, status enums.OrderStatus, userID *uuid.UUID) *models.Order {
	email := "ariane@example.cm"
	name := "Ariane N."
	productID := uuid.New()
	order := &models.Order{
		ID:             uuid.New(),
		OrderCode:      "MB-20260314-ABC234",
		UserID:         userID,
		Status:         status,
		TotalItems:     2,
		TotalPriceFCFA: 9000,
		Items: []models.OrderItem{
			{ProductID: &productID, Name: "Honey 500g", UnitPriceFCFA: 4500, Qty: 2, TotalFCFA: 9000},
		},
	}
	if userID == nil {
		order.Guest = models.GuestContact{Name: &name, Email: &email}
	}
	f.repo.orders[order.ID] = order
	f.repo.byCode[order.OrderCode] = order
	return order
}

func TestTransitionHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	updated, err := f.svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusShipping,
		ActorRole: enums.ActorAdmin,
	})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if updated.Status != enums.OrderStatusShipping {
		t.Fatalf("expected SHIPPING, got %s", updated.Status)
	}
	if updated.ShippedAt == nil {
		t.Fatal("expected shipped_at to be stamped")
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventOrderStatusChanged {
		t.Fatalf("expected status_changed outbox event, got %+v", f.outbox.events)
	}
	if len(f.notifier.status) != 1 {
		t.Fatal("expected notifier status call")
	}
}

func TestTransitionDeliveredCommitsStock(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusShipping, nil)

	updated, err := f.svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusDelivered,
		ActorRole: enums.ActorAdmin,
	})
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if updated.DeliveredAt == nil {
		t.Fatal("expected delivered_at to be stamped")
	}
	if len(f.ledger.committed) != 1 {
		t.Fatalf("expected stock commit on delivery, got %+v", f.ledger.committed)
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name   string
		status enums.OrderStatus
		target enums.OrderStatus
		code   pkgerrors.Code
	}{
		{"skip to delivered", enums.OrderStatusToProcess, enums.OrderStatusDelivered, pkgerrors.CodeStateConflict},
		{"backward move", enums.OrderStatusShipping, enums.OrderStatusToProcess, pkgerrors.CodeStateConflict},
		{"same status", enums.OrderStatusShipping, enums.OrderStatusShipping, pkgerrors.CodeStateConflict},
		{"cancel via transition", enums.OrderStatusToProcess, enums.OrderStatusCanceled, pkgerrors.CodeValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order := seedOrder(f, tc.status, nil)
			_, err := f.svc.Transition(context.Background(), TransitionInput{
				OrderID:   order.ID,
				Target:    tc.target,
				ActorRole: enums.ActorAdmin,
			})
			expectCode(t, err, tc.code)
		})
	}
}

func TestTransitionNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Transition(context.Background(), TransitionInput{
		OrderID:   uuid.New(),
		Target:    enums.OrderStatusShipping,
		ActorRole: enums.ActorAdmin,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestTransitionConcurrentChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)
	f.repo.updateRows = 0

	_, err := f.svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Target:    enums.OrderStatusShipping,
		ActorRole: enums.ActorAdmin,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelRestoresStockAndRecordsAudit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	canceled, err := f.svc.Cancel(context.Background(), CancelInput{
		OrderID:   order.ID,
		Reason:    "customer changed their mind",
		ActorRole: enums.ActorAdmin,
	})
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if canceled.Status != enums.OrderStatusCanceled {
		t.Fatalf("expected CANCELED, got %s", canceled.Status)
	}
	if canceled.CanceledAt == nil || canceled.CancelReason == nil || canceled.CanceledBy == nil {
		t.Fatalf("expected cancellation audit fields, got %+v", canceled)
	}
	if *canceled.CanceledBy != enums.ActorAdmin {
		t.Fatalf("expected canceled_by ADMIN, got %s", *canceled.CanceledBy)
	}
	if len(f.ledger.restored) != 1 {
		t.Fatalf("expected stock restore, got %+v", f.ledger.restored)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventOrderCanceled {
		t.Fatalf("expected order_canceled outbox event, got %+v", f.outbox.events)
	}
	if len(f.notifier.canceled) != 1 {
		t.Fatal("expected notifier cancel call")
	}
}

func TestCancelReasonTooShort(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	_, err := f.svc.Cancel(context.Background(), CancelInput{
		OrderID:   order.ID,
		Reason:    "  no  ",
		ActorRole: enums.ActorUser,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCancelAlreadyCanceled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusCanceled, nil)
	now := time.Now()
	order.CanceledAt = &now

	_, err := f.svc.Cancel(context.Background(), CancelInput{
		OrderID:   order.ID,
		Reason:    "trying again",
		ActorRole: enums.ActorAdmin,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.ledger.restored) != 0 {
		t.Fatal("stock must not be restored twice")
	}
}

func TestCancelPolicyPerActor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusShipping, nil)

	_, err := f.svc.Cancel(context.Background(), CancelInput{
		OrderID:   order.ID,
		Reason:    "too late to cancel",
		ActorRole: enums.ActorUser,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)

	if _, err := f.svc.Cancel(context.Background(), CancelInput{
		OrderID:   order.ID,
		Reason:    "address unreachable",
		ActorRole: enums.ActorAdmin,
	}); err != nil {
		t.Fatalf("admin should cancel shipping orders: %v", err)
	}
}

func TestTrackMatchesGuestEmailCaseInsensitive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	got, err := f.svc.Track(context.Background(), order.OrderCode, "ARIANE@Example.cm")
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, got.ID)
	}
}

func TestTrackMismatchedEmailReadsAsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	_, err := f.svc.Track(context.Background(), order.OrderCode, "someone-else@example.cm")
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestTrackAccountOrderResolvesDirectoryEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	userID := uuid.New()
	f.directory.emails[userID] = "owner@example.cm"
	order := seedOrder(f, enums.OrderStatusToProcess, &userID)

	got, err := f.svc.Track(context.Background(), order.OrderCode, "owner@example.cm")
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, got.ID)
	}
}

func TestGuestCancelRejectsAccountOrders(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	userID := uuid.New()
	f.directory.emails[userID] = "owner@example.cm"
	order := seedOrder(f, enums.OrderStatusToProcess, &userID)

	_, err := f.svc.GuestCancel(context.Background(), order.OrderCode, "owner@example.cm", "changed my mind")
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestGuestCancelHappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := seedOrder(f, enums.OrderStatusToProcess, nil)

	canceled, err := f.svc.GuestCancel(context.Background(), order.OrderCode, "ariane@example.cm", "changed my mind")
	if err != nil {
		t.Fatalf("GuestCancel error: %v", err)
	}
	if canceled.Status != enums.OrderStatusCanceled {
		t.Fatalf("expected CANCELED, got %s", canceled.Status)
	}
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ownerID := uuid.New()
	order := seedOrder(f, enums.OrderStatusToProcess, &ownerID)

	_, err := f.svc.GetForUser(context.Background(), uuid.New(), order.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)

	got, err := f.svc.GetForUser(context.Background(), ownerID, order.ID)
	if err != nil {
		t.Fatalf("GetForUser error: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, got.ID)
	}
}

func TestListForUserPaginates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	userID := uuid.New()

	rows := make([]models.Order, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.Order{
			ID:        uuid.New(),
			OrderCode: fmt.Sprintf("MB-20260314-AAAA%d%d", i, i),
			Status:    enums.OrderStatusToProcess,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	f.repo.listByUserRows = rows

	list, err := f.svc.ListForUser(context.Background(), userID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(list.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list.Orders))
	}
	if list.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}
}

func TestRevenueAggregates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	f.repo.revenueRows = []revenueDBRow{
		{Day: day, OrderCount: 2, RevenueFCFA: 10000},
		{Day: day.AddDate(0, 0, 1), OrderCount: 1, RevenueFCFA: 2500},
	}

	summary, err := f.svc.Revenue(context.Background(), day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("Revenue error: %v", err)
	}
	if summary.OrderCount != 3 || summary.RevenueFCFA != 12500 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.AvgOrderVal.String() != "4166.67" {
		t.Fatalf("unexpected average: %s", summary.AvgOrderVal)
	}
}

func TestRevenueRejectsInvertedRange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	now := time.Now()
	_, err := f.svc.Revenue(context.Background(), now, now.Add(-time.Hour))
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCancelStaleSkipsConcurrentlyMovedOrders(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	stale := seedOrder(f, enums.OrderStatusToProcess, nil)
	moved := seedOrder(f, enums.OrderStatusShipping, nil)
	f.repo.staleRows = []models.Order{*stale, *moved}

	canceled, err := f.svc.CancelStale(context.Background(), 14*24*time.Hour, 100)
	if err != nil {
		t.Fatalf("CancelStale error: %v", err)
	}
	if canceled != 1 {
		t.Fatalf("expected 1 canceled order, got %d", canceled)
	}
}

func TestCancelStaleValidatesWindow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if _, err := f.svc.CancelStale(context.Background(), 0, 10); err == nil {
		t.Fatal("expected error for non-positive window")
	}
}

func TestOutboxFailureAbortsCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	productID := f.addProduct("Honey 500g", 4500, false)
	f.outbox.err = errors.New("outbox insert failed")

	_, err := f.svc.Create(context.Background(), CreateInput{
		Guest: guest(),
		Items: []CreateItemInput{{ProductID: productID, Qty: 1}},
	})
	if err == nil {
		t.Fatal("expected create to fail when the outbox insert fails")
	}
	if len(f.notifier.created) != 0 {
		t.Fatal("notifier must not fire when the transaction fails")
	}
}
