package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"in range passes through", 40, 40},
		{"capped at max", 5000, MaxLimit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.limit); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestLimitWithBuffer(t *testing.T) {
	t.Parallel()
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d, want 11", got)
	}
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("LimitWithBuffer(0) = %d, want %d", got, DefaultLimit+1)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 123456789, time.UTC),
		ID:        uuid.New(),
	}
	decoded, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatalf("ParseCursor error: %v", err)
	}
	if !decoded.CreatedAt.Equal(original.CreatedAt) || decoded.ID != original.ID {
		t.Fatalf("cursor round trip mismatch: %+v vs %+v", decoded, original)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	t.Parallel()
	cursor, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("blank cursor should be accepted, got %v", err)
	}
	if cursor != nil {
		t.Fatalf("blank cursor should decode to nil, got %+v", cursor)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"not base64", "!!not-base64!!"},
		{"missing separator", "bm8tc2VwYXJhdG9y"},
		{"bad timestamp", "bm90LWEtdGltZXwxMjM0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCursor(tc.value); err == nil {
				t.Fatalf("expected error for %q", tc.value)
			}
		})
	}
}
