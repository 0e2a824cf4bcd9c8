package orders

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	code, err := GenerateCode("MB", now)
	if err != nil {
		t.Fatalf("GenerateCode error: %v", err)
	}

	pattern := regexp.MustCompile(`^MB-20260314-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{6}$`)
	if !pattern.MatchString(code) {
		t.Fatalf("unexpected code format: %s", code)
	}
}

func TestGenerateCodeUsesUTCDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("WAT", 60*60)
	// 00:30 local on the 15th is still the 14th in UTC.
	now := time.Date(2026, 3, 15, 0, 30, 0, 0, loc)
	code, err := GenerateCode("MB", now)
	if err != nil {
		t.Fatalf("GenerateCode error: %v", err)
	}
	if got := code[3:11]; got != "20260314" {
		t.Fatalf("expected UTC date 20260314 in code, got %s (%s)", got, code)
	}
}
