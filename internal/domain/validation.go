package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants.
const (
	MaxAccountNameLength = 255
	MaxAmount            = "1000000000" // 1 billion, cash funds never get close
)

// ValidateAccountName validates an account display name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}
	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}
	return nil
}

// ValidateAmount validates a money movement amount. Amounts are strictly
// positive; a transaction that moves nothing is a recording error.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount)
	}
	return nil
}

// ValidateLimit validates an optional account limit.
func ValidateLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return ErrInvalidLimit
	}
	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
