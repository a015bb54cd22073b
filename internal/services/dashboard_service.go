package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/bastion/internal/anomaly"
)

// DashboardSummary aggregates the audit trail for the monitoring view.
type DashboardSummary struct {
	Total        int            `json:"total"`
	AnomalyCount int            `json:"anomaly_count"`
	NormalCount  int            `json:"normal_count"`
	StatusCounts map[string]int `json:"status_counts"`
}

// DashboardService serves classified views of the audit trail. It never
// mutates anything; classification is recomputed from the full trail on each
// call rather than persisted.
type DashboardService struct {
	audit  AuditLogRepository
	logger *slog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(audit AuditLogRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{audit: audit, logger: logger}
}

// ClassifiedEvents returns the full audit trail newest first, each event
// labeled Normal or Anomaly by signature recurrence.
func (s *DashboardService) ClassifiedEvents(ctx context.Context) ([]anomaly.LabeledEvent, error) {
	events, err := s.audit.ScanAllDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load login events: %w", err)
	}

	return anomaly.Classify(events), nil
}

// Summary returns classification totals plus per-status counts.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	events, err := s.audit.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load login events: %w", err)
	}

	counts, err := s.audit.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count login events: %w", err)
	}

	labelSummary := anomaly.Summarize(anomaly.Classify(events))

	return &DashboardSummary{
		Total:        labelSummary.Total,
		AnomalyCount: labelSummary.AnomalyCount,
		NormalCount:  labelSummary.NormalCount,
		StatusCounts: counts,
	}, nil
}
