package eventpublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

func TestScanPublishesAlerts(t *testing.T) {
	source := &stubAlertSource{
		alerts: []usecase.Alert{
			{Type: usecase.AlertLowBalance, AccountID: "acc-1"},
			{Type: usecase.AlertNoReconciliation, AccountID: "acc-2"},
		},
	}
	pub := &stubPublisher{}
	ap := newTestPublisher(source, pub)

	if err := ap.scan(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected two published alerts, got %d", len(pub.published))
	}
	if source.principal.Role != domain.RoleAdmin {
		t.Fatalf("expected scan to run as admin, got %s", source.principal.Role)
	}
}

func TestScanContinuesOnPublishError(t *testing.T) {
	source := &stubAlertSource{
		alerts: []usecase.Alert{
			{Type: usecase.AlertLowBalance, AccountID: "acc-1"},
			{Type: usecase.AlertLowBalance, AccountID: "acc-2"},
		},
	}
	pub := &stubPublisher{
		errorsByAccount: map[string]error{"acc-1": errors.New("fail")},
	}
	ap := newTestPublisher(source, pub)

	if err := ap.scan(context.Background()); err != nil {
		t.Fatalf("scan returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].AccountID != "acc-2" {
		t.Fatalf("expected only acc-2 alert to be published, got %#v", pub.published)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	source := &stubAlertSource{}
	pub := &stubPublisher{}
	ap := newTestPublisher(source, pub)
	ap.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ap.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func newTestPublisher(source *stubAlertSource, pub *stubPublisher) *AlertPublisher {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewAlertPublisher(Config{
		Source:    source,
		Publisher: pub,
		Logger:    logger,
		Interval:  5 * time.Millisecond,
	})
}

type stubAlertSource struct {
	alerts    []usecase.Alert
	principal domain.Principal
}

func (s *stubAlertSource) GetAlerts(ctx context.Context, principal domain.Principal) ([]usecase.Alert, error) {
	s.principal = principal
	return append([]usecase.Alert(nil), s.alerts...), nil
}

type stubPublisher struct {
	published       []usecase.Alert
	errorsByAccount map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, alert usecase.Alert) error {
	if err := s.errorsByAccount[alert.AccountID]; err != nil {
		return err
	}
	s.published = append(s.published, alert)
	return nil
}
