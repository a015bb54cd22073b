package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BradenHooton/bastion/internal/anomaly"
	"github.com/BradenHooton/bastion/internal/services"
	pkghttp "github.com/BradenHooton/bastion/pkg/http"
)

// DashboardServiceInterface defines the interface for audit trail views
type DashboardServiceInterface interface {
	ClassifiedEvents(ctx context.Context) ([]anomaly.LabeledEvent, error)
	Summary(ctx context.Context) (*services.DashboardSummary, error)
}

// DashboardHandler serves the monitoring views over the audit trail
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// EventsResponse wraps the classified event list
type EventsResponse struct {
	Events []anomaly.LabeledEvent `json:"events"`
}

// GetEvents returns the full audit trail, newest first, with anomaly labels
// @Summary List classified login events
// @Produce json
// @Success 200 {object} EventsResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /dashboard/events [get]
func (h *DashboardHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	labeled, err := h.service.ClassifiedEvents(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Unable to load login events")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(EventsResponse{Events: labeled})
}

// GetSummary returns aggregate counts over the audit trail
// @Summary Summarize login activity
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Unable to load summary")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}
