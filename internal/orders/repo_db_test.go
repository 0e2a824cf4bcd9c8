package orders

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arielsonkoue/mboashop-backend/pkg/db/models"
	"github.com/arielsonkoue/mboashop-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("MBOASHOP_DB_DSN")
	if dsn == "" {
		t.Skip("MBOASHOP_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func beginTestTx(t *testing.T) *gorm.DB {
	t.Helper()
	tx := openTestDB(t).Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

func mustCreateOrder(t *testing.T, tx *gorm.DB, code string, status enums.OrderStatus) *models.Order {
	t.Helper()
	email := "ariane@example.cm"
	order := &models.Order{
		OrderCode:      code,
		Status:         status,
		Guest:          models.GuestContact{Email: &email},
		TotalItems:     2,
		TotalPriceFCFA: 7000,
		Items: []models.OrderItem{
			{Name: "Savon artisanal", UnitPriceFCFA: 2000, Qty: 1, TotalFCFA: 2000},
			{Name: "Huile de palme 1L", UnitPriceFCFA: 2500, Qty: 2, TotalFCFA: 5000},
		},
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestRepositoryFindByCodePreloadsItems(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	created := mustCreateOrder(t, tx, "MB-20260314-DBTEST", enums.OrderStatusToProcess)

	fetched, err := repo.FindByCode(ctx, created.OrderCode)
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected order %s, got %s", created.ID, fetched.ID)
	}
	if len(fetched.Items) != 2 {
		t.Fatalf("expected items preloaded, got %d", len(fetched.Items))
	}
}

func TestRepositoryUpdateStatusGuarded(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	order := mustCreateOrder(t, tx, "MB-20260314-GUARD1", enums.OrderStatusToProcess)

	rows, err := repo.UpdateStatusGuarded(ctx, order.ID, *order, map[string]any{
		"status":     enums.OrderStatusShipping,
		"shipped_at": time.Now(),
	})
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one row updated, got %d", rows)
	}

	// The guard carries the pre-update status, so replaying the same
	// transition must lose.
	rows, err = repo.UpdateStatusGuarded(ctx, order.ID, *order, map[string]any{
		"status": enums.OrderStatusShipping,
	})
	if err != nil {
		t.Fatalf("guarded update replay: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected stale guard to update nothing, got %d rows", rows)
	}
}

func TestRepositoryFindStale(t *testing.T) {
	tx := beginTestTx(t)
	repo := NewRepository(tx)
	ctx := context.Background()

	stale := mustCreateOrder(t, tx, "MB-20260314-STALE1", enums.OrderStatusToProcess)
	if err := tx.Model(&models.Order{}).
		Where("id = ?", stale.ID).
		UpdateColumn("created_at", time.Now().Add(-30*24*time.Hour)).Error; err != nil {
		t.Fatalf("age order: %v", err)
	}
	mustCreateOrder(t, tx, "MB-20260314-FRESH1", enums.OrderStatusToProcess)
	shipped := mustCreateOrder(t, tx, "MB-20260314-SHIP01", enums.OrderStatusShipping)
	if err := tx.Model(&models.Order{}).
		Where("id = ?", shipped.ID).
		UpdateColumn("created_at", time.Now().Add(-30*24*time.Hour)).Error; err != nil {
		t.Fatalf("age order: %v", err)
	}

	rows, err := repo.FindStale(ctx, time.Now().Add(-14*24*time.Hour), 10)
	if err != nil {
		t.Fatalf("find stale: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != stale.ID {
		t.Fatalf("expected only the aged TO_PROCESS order, got %d rows", len(rows))
	}
}

func TestRepositoryOrderCodeUniqueIndex(t *testing.T) {
	tx := beginTestTx(t)

	mustCreateOrder(t, tx, "MB-20260314-DUPE01", enums.OrderStatusToProcess)
	email := "ariane@example.cm"
	err := tx.Create(&models.Order{
		OrderCode: "MB-20260314-DUPE01",
		Status:    enums.OrderStatusToProcess,
		Guest:     models.GuestContact{Email: &email},
	}).Error
	if err == nil {
		t.Fatal("expected duplicate order code insert to fail")
	}
}
