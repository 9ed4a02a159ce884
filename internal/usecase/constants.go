package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Prevents long-running transactions from holding row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// SummaryCacheTTL is how long account summaries are cached. Reporting
	// reads tolerate this much staleness.
	SummaryCacheTTL = 60 * time.Second
)
