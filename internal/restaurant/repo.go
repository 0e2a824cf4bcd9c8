package restaurant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a restaurant repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBooking(ctx context.Context, booking *models.TableBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindBookingByID(ctx context.Context, id uuid.UUID) (*models.TableBooking, error) {
	var booking models.TableBooking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindBookingByCode(ctx context.Context, code string) (*models.TableBooking, error) {
	var booking models.TableBooking
	err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateBookingGuarded(ctx context.Context, id uuid.UUID, from models.TableBooking, updates map[string]any) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TableBooking{}).
		Where("id = ? AND status = ?", id, from.Status)
	if from.CanceledAt == nil {
		query = query.Where("canceled_at IS NULL")
	}
	res := query.Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListBookings(ctx context.Context, filters BookingFilters, cursor *pagination.Cursor, limit int) ([]models.TableBooking, error) {
	query := r.db.WithContext(ctx).Model(&models.TableBooking{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("booking_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("booking_at <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var bookings []models.TableBooking
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) CreateFoodOrder(ctx context.Context, order *models.FoodOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindFoodOrderByID(ctx context.Context, id uuid.UUID) (*models.FoodOrder, error) {
	var order models.FoodOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindFoodOrderByCode(ctx context.Context, code string) (*models.FoodOrder, error) {
	var order models.FoodOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_code = ?", code).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) UpdateFoodOrderGuarded(ctx context.Context, id uuid.UUID, from models.FoodOrder, updates map[string]any) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.FoodOrder{}).
		Where("id = ? AND status = ?", id, from.Status)
	if from.CanceledAt == nil {
		query = query.Where("canceled_at IS NULL")
	}
	res := query.Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListFoodOrders(ctx context.Context, filters FoodOrderFilters, cursor *pagination.Cursor, limit int) ([]models.FoodOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.FoodOrder{}).Preload("Items")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.FoodOrder
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
