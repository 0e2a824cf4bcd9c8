package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/internal/inventory"
	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

// Repository is the persistence surface for shop orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCode(ctx context.Context, code string) (*models.Order, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from models.Order, updates map[string]any) (int64, error)
	ListOrders(ctx context.Context, filters Filters, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	FindStale(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]revenueDBRow, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockLedger applies all-or-nothing inventory movements in the caller's tx.
type StockLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error
	Restore(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error
	Commit(ctx context.Context, tx *gorm.DB, lines []inventory.Line) error
}

// EventNotifier dispatches customer/admin notifications after commit. It is
// best-effort and never returns an error.
type EventNotifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order)
	OrderCanceled(ctx context.Context, order *models.Order)
}

// UserDirectory resolves account emails for tracking and notifications.
type UserDirectory interface {
	FindEmailByID(ctx context.Context, id uuid.UUID) (string, error)
}
