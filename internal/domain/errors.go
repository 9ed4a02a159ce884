package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error wraps exactly one of these so callers
// can branch on the class with errors.Is without enumerating sentinels.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrState       = errors.New("illegal state transition")
	ErrPersistence = errors.New("persistence error")
)

var (
	// Account errors
	ErrAccountNotFound    = fmt.Errorf("%w: account", ErrNotFound)
	ErrAccountInactive    = fmt.Errorf("%w: account inactive", ErrValidation)
	ErrAccountClosed      = fmt.Errorf("%w: account is closed", ErrState)
	ErrAssigneeRequired   = fmt.Errorf("%w: account requires a user or cashier assignee", ErrValidation)
	ErrAssigneeConflict   = fmt.Errorf("%w: account assignee must be a user or a cashier, not both", ErrValidation)
	ErrAmbiguousAssignee  = fmt.Errorf("%w: assignee resolves to more than one open account", ErrState)
	ErrNegativeOpening    = fmt.Errorf("%w: opening balance must not be negative", ErrValidation)
	ErrInvalidLimit       = fmt.Errorf("%w: limits must not be negative", ErrValidation)
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)

	// Ledger errors
	ErrTransactionNotFound      = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrInvalidAmount            = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidTransactionType   = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrInsufficientBalance      = fmt.Errorf("%w: insufficient balance", ErrValidation)
	ErrTransactionLimitExceeded = fmt.Errorf("%w: amount exceeds per-transaction limit", ErrValidation)
	ErrDailyLimitExceeded       = fmt.Errorf("%w: amount exceeds daily limit", ErrValidation)
	ErrAdjustmentTargetRequired = fmt.Errorf("%w: adjustment requires a target balance", ErrValidation)
	ErrTransactionResolved      = fmt.Errorf("%w: transaction already resolved", ErrState)
	ErrRejectionReasonRequired  = fmt.Errorf("%w: rejection requires a reason", ErrValidation)
	ErrNotAuthorized            = fmt.Errorf("%w: principal not permitted", ErrValidation)

	// Expense errors
	ErrCategoryNotFound = fmt.Errorf("%w: expense category", ErrNotFound)
	ErrCategoryInactive = fmt.Errorf("%w: expense category inactive", ErrValidation)

	// Reconciliation errors
	ErrReconciliationNotFound = fmt.Errorf("%w: reconciliation", ErrNotFound)
	ErrVarianceReasonRequired = fmt.Errorf("%w: non-zero variance requires a reason", ErrValidation)
	ErrInvalidPeriod          = fmt.Errorf("%w: period end must not precede period start", ErrValidation)

	// Auth errors
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrValidation)
	ErrExpiredToken = fmt.Errorf("%w: token expired", ErrValidation)

	// Replenishment errors
	ErrReplenishmentNotFound    = fmt.Errorf("%w: replenishment", ErrNotFound)
	ErrReplenishmentNotPending  = fmt.Errorf("%w: replenishment is not pending", ErrState)
	ErrReplenishmentNotApproved = fmt.Errorf("%w: replenishment is not approved", ErrState)
	ErrJustificationRequired    = fmt.Errorf("%w: replenishment requires a justification", ErrValidation)
	ErrApprovedExceedsRequested = fmt.Errorf("%w: approved amount must not exceed requested amount", ErrValidation)
)
