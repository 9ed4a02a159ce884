package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestAccount_ValidateExpense(t *testing.T) {
	tests := []struct {
		name          string
		account       Account
		amount        decimal.Decimal
		todayApproved decimal.Decimal
		wantErr       error
	}{
		{
			name: "within balance and limits",
			account: Account{
				Status:         AccountStatusActive,
				IsActive:       true,
				CurrentBalance: dec(1000),
			},
			amount:  dec(200),
			wantErr: nil,
		},
		{
			name: "suspended account",
			account: Account{
				Status:         AccountStatusSuspended,
				IsActive:       false,
				CurrentBalance: dec(1000),
			},
			amount:  dec(10),
			wantErr: ErrAccountInactive,
		},
		{
			name: "insufficient balance",
			account: Account{
				Status:         AccountStatusActive,
				IsActive:       true,
				CurrentBalance: dec(100),
			},
			amount:  dec(150),
			wantErr: ErrInsufficientBalance,
		},
		{
			name: "exact balance is allowed",
			account: Account{
				Status:         AccountStatusActive,
				IsActive:       true,
				CurrentBalance: dec(100),
			},
			amount:  dec(100),
			wantErr: nil,
		},
		{
			name: "transaction limit exceeded",
			account: Account{
				Status:           AccountStatusActive,
				IsActive:         true,
				CurrentBalance:   dec(1000),
				TransactionLimit: decPtr(300),
			},
			amount:  dec(301),
			wantErr: ErrTransactionLimitExceeded,
		},
		{
			name: "daily limit exceeded including today's approved total",
			account: Account{
				Status:         AccountStatusActive,
				IsActive:       true,
				CurrentBalance: dec(1000),
				DailyLimit:     decPtr(500),
			},
			amount:        dec(200),
			todayApproved: dec(350),
			wantErr:       ErrDailyLimitExceeded,
		},
		{
			name: "daily limit exactly reached",
			account: Account{
				Status:         AccountStatusActive,
				IsActive:       true,
				CurrentBalance: dec(1000),
				DailyLimit:     decPtr(500),
			},
			amount:        dec(150),
			todayApproved: dec(350),
			wantErr:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.ValidateExpense(tt.amount, tt.todayApproved)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expense validation failures must be validation errors, got %v", err)
			}
		})
	}
}

func TestAccount_NeedsApproval(t *testing.T) {
	account := Account{ApprovalThreshold: dec(500)}

	if account.NeedsApproval(dec(200)) {
		t.Error("amount below threshold should not need approval")
	}
	if account.NeedsApproval(dec(500)) {
		t.Error("amount equal to threshold should not need approval")
	}
	if !account.NeedsApproval(dec(600)) {
		t.Error("amount above threshold should need approval")
	}

	unguarded := Account{ApprovalThreshold: decimal.Zero}
	if unguarded.NeedsApproval(dec(1000000)) {
		t.Error("zero threshold disables the approval gate")
	}
}

func TestAccount_BelowMinimum(t *testing.T) {
	account := Account{MinimumBalance: dec(100), CurrentBalance: dec(50)}
	if !account.BelowMinimum() {
		t.Error("balance below floor should trigger alert")
	}

	account.CurrentBalance = dec(100)
	if account.BelowMinimum() {
		t.Error("balance at floor should not trigger alert")
	}

	account = Account{MinimumBalance: decimal.Zero, CurrentBalance: dec(-10)}
	if account.BelowMinimum() {
		t.Error("zero floor disables the alert")
	}
}

func TestAccount_Open(t *testing.T) {
	if !(&Account{Status: AccountStatusSuspended}).Open() {
		t.Error("suspended account stays open for approvals and replenishment")
	}
	if (&Account{Status: AccountStatusClosed}).Open() {
		t.Error("closed account is frozen")
	}
}
