package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds all Prometheus metrics for the ledger core. A nil *Metrics
// disables recording, which keeps usecase tests free of registry state.
type Metrics struct {
	// Ledger metrics
	TransactionsCreated *prometheus.CounterVec
	ExpenseAmount       prometheus.Histogram
	ExpensesRejected    *prometheus.CounterVec

	// Approval metrics
	ApprovalsProcessed *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationsCreated *prometheus.CounterVec
	ReconciliationVariance prometheus.Histogram

	// Replenishment metrics
	ReplenishmentTransitions *prometheus.CounterVec

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Alert metrics
	AlertsEmitted *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_transactions_created_total",
				Help: "Total number of ledger transactions created",
			},
			[]string{"type", "approval_status"},
		),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pettycash_expense_amount",
			Help:    "Recorded expense amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		ExpensesRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_expenses_rejected_total",
				Help: "Expense recordings rejected by validation",
			},
			[]string{"reason"},
		),
		ApprovalsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_approvals_processed_total",
				Help: "Approval gate decisions",
			},
			[]string{"outcome"},
		),
		ReconciliationsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_reconciliations_created_total",
				Help: "Reconciliations created",
			},
			[]string{"balanced"},
		),
		ReconciliationVariance: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pettycash_reconciliation_variance_abs",
			Help:    "Absolute reconciliation variance",
			Buckets: []float64{0.01, 0.1, 1, 5, 10, 50, 100, 500},
		}),
		ReplenishmentTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_replenishment_transitions_total",
				Help: "Replenishment state machine transitions",
			},
			[]string{"transition"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pettycash_accounts_created_total",
			Help: "Petty-cash accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_account_operations_total",
				Help: "Account lifecycle operations",
			},
			[]string{"operation"},
		),
		AlertsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pettycash_alerts_emitted_total",
				Help: "Alerts returned to callers",
			},
			[]string{"type"},
		),
	}
}

// ObserveTransaction records a created ledger transaction.
func (m *Metrics) ObserveTransaction(typ, approvalStatus string) {
	if m == nil {
		return
	}
	m.TransactionsCreated.WithLabelValues(typ, approvalStatus).Inc()
}

// ObserveExpense records a successfully recorded expense amount.
func (m *Metrics) ObserveExpense(amount decimal.Decimal) {
	if m == nil {
		return
	}
	f, _ := amount.Float64()
	m.ExpenseAmount.Observe(f)
}

// ObserveApproval records an approval gate decision.
func (m *Metrics) ObserveApproval(outcome string) {
	if m == nil {
		return
	}
	m.ApprovalsProcessed.WithLabelValues(outcome).Inc()
}

// ObserveReconciliation records a created reconciliation and its variance.
func (m *Metrics) ObserveReconciliation(balanced bool, variance decimal.Decimal) {
	if m == nil {
		return
	}
	label := "false"
	if balanced {
		label = "true"
	}
	m.ReconciliationsCreated.WithLabelValues(label).Inc()
	f, _ := variance.Abs().Float64()
	m.ReconciliationVariance.Observe(f)
}

// ObserveReplenishment records a replenishment transition.
func (m *Metrics) ObserveReplenishment(transition string) {
	if m == nil {
		return
	}
	m.ReplenishmentTransitions.WithLabelValues(transition).Inc()
}

// ObserveAccountOperation records an account lifecycle operation.
func (m *Metrics) ObserveAccountOperation(operation string) {
	if m == nil {
		return
	}
	if operation == "create" {
		m.AccountsCreated.Inc()
	}
	m.AccountOperations.WithLabelValues(operation).Inc()
}

// ObserveAlert records an emitted alert.
func (m *Metrics) ObserveAlert(typ string) {
	if m == nil {
		return
	}
	m.AlertsEmitted.WithLabelValues(typ).Inc()
}
