package restaurant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/outbox"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

// Repository is the persistence surface for bookings and food orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBooking(ctx context.Context, booking *models.TableBooking) error
	FindBookingByID(ctx context.Context, id uuid.UUID) (*models.TableBooking, error)
	FindBookingByCode(ctx context.Context, code string) (*models.TableBooking, error)
	UpdateBookingGuarded(ctx context.Context, id uuid.UUID, from models.TableBooking, updates map[string]any) (int64, error)
	ListBookings(ctx context.Context, filters BookingFilters, cursor *pagination.Cursor, limit int) ([]models.TableBooking, error)

	CreateFoodOrder(ctx context.Context, order *models.FoodOrder) error
	FindFoodOrderByID(ctx context.Context, id uuid.UUID) (*models.FoodOrder, error)
	FindFoodOrderByCode(ctx context.Context, code string) (*models.FoodOrder, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	UpdateFoodOrderGuarded(ctx context.Context, id uuid.UUID, from models.FoodOrder, updates map[string]any) (int64, error)
	ListFoodOrders(ctx context.Context, filters FoodOrderFilters, cursor *pagination.Cursor, limit int) ([]models.FoodOrder, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// EventNotifier dispatches customer/admin notifications after commit. It is
// best-effort and never returns an error.
type EventNotifier interface {
	BookingCreated(ctx context.Context, booking *models.TableBooking)
	BookingStatusChanged(ctx context.Context, booking *models.TableBooking)
	BookingCanceled(ctx context.Context, booking *models.TableBooking)
	FoodOrderCreated(ctx context.Context, order *models.FoodOrder)
	FoodOrderStatusChanged(ctx context.Context, order *models.FoodOrder)
	FoodOrderCanceled(ctx context.Context, order *models.FoodOrder)
}
