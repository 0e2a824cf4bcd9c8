package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	pkgerrors "github.com/arielsonkoue/mboashop-backend/pkg/errors"
)

// Line is a single reservation request against a limited product.
type Line struct {
	ProductID uuid.UUID
	Name      string
	Qty       int
}

// InsufficientStockError reports the first product that could not cover the
// requested quantity. The whole reservation aborts when it is returned.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// Ledger applies all-or-nothing stock movements inside the caller's transaction.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve moves quantities from available to reserved for every line. It
// validates the full set first, then applies conditional decrements guarded by
// available_qty so concurrent reservations cannot oversell. Any failure leaves
// the transaction to be rolled back by the caller.
func (Ledger) Reserve(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}

	for _, line := range lines {
		if line.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}
	}

	// Validate the whole set before touching any row so the caller gets the
	// offending product even when a later line is the short one.
	for _, line := range lines {
		var item models.InventoryItem
		err := tx.WithContext(ctx).
			Where("product_id = ?", line.ProductID).
			First(&item).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return &InsufficientStockError{
					ProductID:   line.ProductID,
					ProductName: line.Name,
					Requested:   line.Qty,
					Available:   0,
				}
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		if item.AvailableQty < line.Qty {
			return &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Requested:   line.Qty,
				Available:   item.AvailableQty,
			}
		}
	}

	for _, line := range lines {
		res := tx.WithContext(ctx).Exec(`
			UPDATE inventory_items
			SET available_qty = available_qty - ?,
				reserved_qty = reserved_qty + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE product_id = ? AND available_qty >= ?
		`, line.Qty, line.Qty, line.ProductID, line.Qty)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve inventory")
		}
		// A concurrent reservation won the row between validation and update.
		if res.RowsAffected == 0 {
			return &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Requested:   line.Qty,
				Available:   0,
			}
		}
	}

	return nil
}

// Restore returns reserved quantities to available stock. Callers guard
// against double restores with the order's conditional cancel update, so the
// increments here are applied at most once per cancellation.
func (Ledger) Restore(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory restore")
	}

	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		res := tx.WithContext(ctx).Exec(`
			UPDATE inventory_items
			SET available_qty = available_qty + ?,
				reserved_qty = reserved_qty - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE product_id = ? AND reserved_qty >= ?
		`, line.Qty, line.Qty, line.ProductID, line.Qty)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restore inventory")
		}
	}

	return nil
}

// Commit consumes reservations once an order is delivered, releasing the
// reserved quantities without returning them to available stock.
func (Ledger) Commit(ctx context.Context, tx *gorm.DB, lines []Line) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory commit")
	}

	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		res := tx.WithContext(ctx).Exec(`
			UPDATE inventory_items
			SET reserved_qty = reserved_qty - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE product_id = ? AND reserved_qty >= ?
		`, line.Qty, line.ProductID, line.Qty)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "commit inventory")
		}
	}

	return nil
}
