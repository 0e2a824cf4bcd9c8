package inventory

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
)

func beginTestTx(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MBOASHOP_DB_DSN")
	if dsn == "" {
		t.Skip("MBOASHOP_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func mustCreateStock(t *testing.T, tx *gorm.DB, available int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      "Savon artisanal",
		PriceFCFA: 2000,
		IsLimited: true,
		IsActive:  true,
		Inventory: &models.InventoryItem{AvailableQty: available},
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product with stock: %v", err)
	}
	return product
}

func readStock(t *testing.T, tx *gorm.DB, productID uuid.UUID) models.InventoryItem {
	t.Helper()
	var item models.InventoryItem
	if err := tx.Where("product_id = ?", productID).First(&item).Error; err != nil {
		t.Fatalf("read inventory: %v", err)
	}
	return item
}

func TestLedgerReserveRestoreCommit(t *testing.T) {
	tx := beginTestTx(t)
	ctx := context.Background()
	ledger := NewLedger()

	product := mustCreateStock(t, tx, 10)
	lines := []Line{{ProductID: product.ID, Name: product.Name, Qty: 4}}

	if err := ledger.Reserve(ctx, tx, lines); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	item := readStock(t, tx, product.ID)
	if item.AvailableQty != 6 || item.ReservedQty != 4 {
		t.Fatalf("after reserve: available=%d reserved=%d", item.AvailableQty, item.ReservedQty)
	}

	if err := ledger.Restore(ctx, tx, lines); err != nil {
		t.Fatalf("restore: %v", err)
	}
	item = readStock(t, tx, product.ID)
	if item.AvailableQty != 10 || item.ReservedQty != 0 {
		t.Fatalf("after restore: available=%d reserved=%d", item.AvailableQty, item.ReservedQty)
	}

	if err := ledger.Reserve(ctx, tx, lines); err != nil {
		t.Fatalf("re-reserve: %v", err)
	}
	if err := ledger.Commit(ctx, tx, lines); err != nil {
		t.Fatalf("commit: %v", err)
	}
	item = readStock(t, tx, product.ID)
	if item.AvailableQty != 6 || item.ReservedQty != 0 {
		t.Fatalf("after commit: available=%d reserved=%d", item.AvailableQty, item.ReservedQty)
	}
}

func TestLedgerReserveAllOrNothing(t *testing.T) {
	tx := beginTestTx(t)
	ctx := context.Background()
	ledger := NewLedger()

	plenty := mustCreateStock(t, tx, 10)
	scarce := mustCreateStock(t, tx, 1)

	err := ledger.Reserve(ctx, tx, []Line{
		{ProductID: plenty.ID, Name: plenty.Name, Qty: 2},
		{ProductID: scarce.ID, Name: scarce.Name, Qty: 3},
	})
	var short *InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if short.ProductID != scarce.ID || short.Requested != 3 || short.Available != 1 {
		t.Fatalf("unexpected shortage details: %+v", short)
	}

	// Validation happens before any write, so the covered line is untouched.
	item := readStock(t, tx, plenty.ID)
	if item.AvailableQty != 10 || item.ReservedQty != 0 {
		t.Fatalf("covered line must stay untouched: available=%d reserved=%d", item.AvailableQty, item.ReservedQty)
	}
}

func TestLedgerReserveUnknownProduct(t *testing.T) {
	tx := beginTestTx(t)
	ctx := context.Background()
	ledger := NewLedger()

	err := ledger.Reserve(ctx, tx, []Line{{ProductID: uuid.New(), Name: "Fantome", Qty: 1}})
	var short *InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError for missing inventory row, got %v", err)
	}
	if short.Available != 0 {
		t.Fatalf("expected zero availability, got %d", short.Available)
	}
}
