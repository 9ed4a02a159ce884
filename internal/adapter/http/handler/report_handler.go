package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/airoxlab/bizposcash-sub000/internal/usecase"
)

// ReportHandler handles the read-only reporting surface.
type ReportHandler struct {
	reportingUseCase *usecase.ReportingUseCase
	logger           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportingUseCase *usecase.ReportingUseCase, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportingUseCase: reportingUseCase,
		logger:           logger,
	}
}

// Summary handles GET /accounts/{id}/summary. The period defaults to the
// last 30 days.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if t, ok := parseTimeQuery(r, "from"); ok {
		from = t
	}
	if t, ok := parseTimeQuery(r, "to"); ok {
		to = t
	}

	summary, err := h.reportingUseCase.GetAccountSummary(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", chi.URLParam(r, "id")).Msg("summary failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Alerts handles GET /alerts.
func (h *ReportHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	alerts, err := h.reportingUseCase.GetAlerts(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

// Consistency handles GET /accounts/{id}/consistency.
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportingUseCase.CheckLedgerConsistency(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
