package domain

import "time"

// AuditLog is an immutable trail entry recorded for balance-affecting and
// lifecycle operations.
type AuditLog struct {
	ID           string
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	Detail       map[string]any
	Status       string
	CreatedAt    time.Time
}

// Auditable actions.
const (
	AuditActionAccountCreate  = "account.create"
	AuditActionAccountUpdate  = "account.update"
	AuditActionAccountSuspend = "account.suspend"
	AuditActionAccountClose   = "account.close"

	AuditActionExpenseRecord      = "expense.record"
	AuditActionTransactionCreate  = "transaction.create"
	AuditActionTransactionApprove = "transaction.approve"
	AuditActionTransactionReject  = "transaction.reject"

	AuditActionReconciliationCreate = "reconciliation.create"

	AuditActionReplenishmentRequest  = "replenishment.request"
	AuditActionReplenishmentApprove  = "replenishment.approve"
	AuditActionReplenishmentDisburse = "replenishment.disburse"
	AuditActionReplenishmentReject   = "replenishment.reject"
)
