package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/metrics"
)

// ReportingUseCase is the read-only aggregation surface over the ledger.
// It has no mutation rights; summaries may be served slightly stale from
// cache.
type ReportingUseCase struct {
	accountRepo        AccountRepository
	transactionRepo    TransactionRepository
	reconciliationRepo ReconciliationRepository
	cache              Cache
	metrics            *metrics.Metrics
}

// NewReportingUseCase creates a new ReportingUseCase.
func NewReportingUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	reconciliationRepo ReconciliationRepository,
	cache Cache,
	m *metrics.Metrics,
) *ReportingUseCase {
	return &ReportingUseCase{
		accountRepo:        accountRepo,
		transactionRepo:    transactionRepo,
		reconciliationRepo: reconciliationRepo,
		cache:              cache,
		metrics:            m,
	}
}

// AccountSummary aggregates an account's ledger activity for a period.
type AccountSummary struct {
	AccountID         string          `json:"account_id"`
	AccountName       string          `json:"account_name"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	TypeTotals        []TypeTotal     `json:"type_totals"`
	PendingApprovals  int64           `json:"pending_approvals"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	DailyTrend        []DailyTotal    `json:"daily_trend"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// GetAccountSummary aggregates totals per type, pending-approval count,
// category breakdown and daily trend. Pure read; results are cached for
// SummaryCacheTTL.
func (uc *ReportingUseCase) GetAccountSummary(ctx context.Context, accountID string, from, to time.Time) (*AccountSummary, error) {
	cacheKey := fmt.Sprintf("summary:%s:%d:%d", accountID, from.Unix(), to.Unix())
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached AccountSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	typeTotals, err := uc.transactionRepo.SummarizeByType(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	pending, err := uc.transactionRepo.CountPending(ctx, accountID)
	if err != nil {
		return nil, err
	}
	breakdown, err := uc.transactionRepo.CategoryBreakdown(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	trend, err := uc.transactionRepo.DailyTotals(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		AccountID:         account.ID,
		AccountName:       account.Name,
		CurrentBalance:    account.CurrentBalance,
		PeriodStart:       from,
		PeriodEnd:         to,
		TypeTotals:        typeTotals,
		PendingApprovals:  pending,
		CategoryBreakdown: breakdown,
		DailyTrend:        trend,
		GeneratedAt:       time.Now().UTC(),
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(raw), SummaryCacheTTL)
		}
	}

	return summary, nil
}

// Alert types.
const (
	AlertLowBalance       = "low_balance"
	AlertNoReconciliation = "no_reconciliation"
)

// Alert flags an account condition that needs operator attention.
type Alert struct {
	Type           string          `json:"type"`
	AccountID      string          `json:"account_id"`
	AccountName    string          `json:"account_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MinimumBalance decimal.Decimal `json:"minimum_balance"`
	Message        string          `json:"message"`
}

// GetAlerts scans active accounts in the principal's visibility set and
// emits low-balance and never-reconciled alerts.
func (uc *ReportingUseCase) GetAlerts(ctx context.Context, principal domain.Principal) ([]Alert, error) {
	filter := AccountFilter{ActiveOnly: true, Limit: 1000}
	if !principal.SeesAllAccounts() {
		filter.OwnerID = principal.ID
	}

	accounts, err := uc.accountRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, account := range accounts {
		if account.BelowMinimum() {
			alerts = append(alerts, Alert{
				Type:           AlertLowBalance,
				AccountID:      account.ID,
				AccountName:    account.Name,
				CurrentBalance: account.CurrentBalance,
				MinimumBalance: account.MinimumBalance,
				Message:        fmt.Sprintf("balance %s is below minimum %s", account.CurrentBalance, account.MinimumBalance),
			})
			uc.metrics.ObserveAlert(AlertLowBalance)
		}

		count, err := uc.reconciliationRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			alerts = append(alerts, Alert{
				Type:           AlertNoReconciliation,
				AccountID:      account.ID,
				AccountName:    account.Name,
				CurrentBalance: account.CurrentBalance,
				Message:        "account has never been reconciled",
			})
			uc.metrics.ObserveAlert(AlertNoReconciliation)
		}
	}

	return alerts, nil
}

// ConsistencyResult reports whether the stored balance projection matches a
// replay of approved transactions.
type ConsistencyResult struct {
	AccountID       string          `json:"account_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// CheckLedgerConsistency replays every approved transaction of an account
// and compares the result against the stored current balance. The balance is
// a projection over the ledger; any drift here is corruption.
func (uc *ReportingUseCase) CheckLedgerConsistency(ctx context.Context, accountID string) (*ConsistencyResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	approved := domain.ApprovalApproved
	transactions, err := uc.transactionRepo.List(ctx, TransactionFilter{
		AccountID:      accountID,
		ApprovalStatus: &approved,
		Limit:          1000000,
	})
	if err != nil {
		return nil, err
	}

	replayed := domain.ReplayBalance(transactions)
	diff := account.CurrentBalance.Sub(replayed)

	return &ConsistencyResult{
		AccountID:       accountID,
		StoredBalance:   account.CurrentBalance,
		ReplayedBalance: replayed,
		Difference:      diff,
		Consistent:      diff.IsZero(),
		CheckedAt:       time.Now().UTC(),
	}, nil
}
