package eventpublisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// AlertSource produces the current alert set. Satisfied by
// usecase.ReportingUseCase.
type AlertSource interface {
	GetAlerts(ctx context.Context, principal domain.Principal) ([]usecase.Alert, error)
}

// Publisher delivers a single alert to an external system.
type Publisher interface {
	Publish(ctx context.Context, alert usecase.Alert) error
}

// AlertPublisher periodically scans all accounts and pushes low-balance and
// never-reconciled alerts to the configured publisher. It runs with an admin
// principal so no account is out of scope.
type AlertPublisher struct {
	source    AlertSource
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
}

// Config for AlertPublisher.
type Config struct {
	Source    AlertSource
	Publisher Publisher
	Logger    *slog.Logger
	Interval  time.Duration
}

// NewAlertPublisher creates a new AlertPublisher.
func NewAlertPublisher(cfg Config) *AlertPublisher {
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &AlertPublisher{
		source:    cfg.Source,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		interval:  cfg.Interval,
	}
}

// Start begins the alert publishing worker. It runs continuously until the
// context is cancelled.
func (ap *AlertPublisher) Start(ctx context.Context) error {
	ap.logger.Info("alert publisher started",
		slog.Duration("interval", ap.interval))

	ticker := time.NewTicker(ap.interval)
	defer ticker.Stop()

	// Scan immediately on start
	if err := ap.scan(ctx); err != nil {
		ap.logger.Error("error scanning alerts on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ap.logger.Info("alert publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ap.scan(ctx); err != nil {
				ap.logger.Error("error scanning alerts", slog.String("error", err.Error()))
			}
		}
	}
}

// scan fetches the current alert set and publishes every entry.
func (ap *AlertPublisher) scan(ctx context.Context) error {
	system := domain.Principal{ID: "system", Role: domain.RoleAdmin}

	alerts, err := ap.source.GetAlerts(ctx, system)
	if err != nil {
		return err
	}

	if len(alerts) == 0 {
		return nil
	}

	ap.logger.Info("publishing alerts", slog.Int("count", len(alerts)))

	for _, alert := range alerts {
		if err := ap.publisher.Publish(ctx, alert); err != nil {
			ap.logger.Error("failed to publish alert",
				slog.String("alert_type", alert.Type),
				slog.String("account_id", alert.AccountID),
				slog.String("error", err.Error()))
			// Keep going; one failed delivery must not starve the rest.
			continue
		}
	}

	return nil
}

// LogPublisher is a simple publisher that logs alerts.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the alert.
func (p *LogPublisher) Publish(ctx context.Context, alert usecase.Alert) error {
	p.logger.Warn("ACCOUNT ALERT",
		slog.String("alert_type", alert.Type),
		slog.String("account_id", alert.AccountID),
		slog.String("account_name", alert.AccountName),
		slog.String("current_balance", alert.CurrentBalance.String()),
		slog.String("message", alert.Message))

	return nil
}
