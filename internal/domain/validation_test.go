package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	if err := ValidateAccountName("Front Desk Float"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAccountName("   "); !errors.Is(err, ErrInvalidAccountName) {
		t.Errorf("blank name should fail, got %v", err)
	}
	if err := ValidateAccountName(strings.Repeat("x", 256)); !errors.Is(err, ErrInvalidAccountName) {
		t.Errorf("overlong name should fail, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount should fail, got %v", err)
	}
	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount should fail, got %v", err)
	}
	huge, _ := decimal.NewFromString("1000000001")
	if err := ValidateAmount(huge); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("amount above cap should fail, got %v", err)
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(nil); err != nil {
		t.Errorf("nil limit means unset, got %v", err)
	}
	if err := ValidateLimit(decPtr(0)); err != nil {
		t.Errorf("zero limit is allowed, got %v", err)
	}
	if err := ValidateLimit(decPtr(-1)); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("negative limit should fail, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -3)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected clamp to 1000, got %d", limit)
	}
}
