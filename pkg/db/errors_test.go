package db

import (
	"fmt"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_orders_order_code" (SQLSTATE 23505)`)

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil error", nil, "", false},
		{"matching constraint", pgErr, "idx_orders_order_code", true},
		{"different constraint", pgErr, "idx_table_bookings_booking_code", false},
		{"any duplicate without constraint", pgErr, "", true},
		{"unrelated error", fmt.Errorf("connection refused"), "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
