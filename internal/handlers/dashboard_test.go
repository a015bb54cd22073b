package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/bastion/internal/anomaly"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/BradenHooton/bastion/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEvents(t *testing.T) {
	service := &MockDashboardService{
		ClassifiedEventsFunc: func(ctx context.Context) ([]anomaly.LabeledEvent, error) {
			return []anomaly.LabeledEvent{
				{
					Event: models.LoginEvent{
						Username:   "alice",
						Status:     models.StatusSuccess,
						OccurredAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
					},
					Label: anomaly.LabelAnomaly,
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/events", nil)
	rec := httptest.NewRecorder()
	NewDashboardHandler(service).GetEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, anomaly.LabelAnomaly, resp.Events[0].Label)
	assert.Equal(t, "alice", resp.Events[0].Event.Username)
}

func TestGetEvents_ServiceError(t *testing.T) {
	service := &MockDashboardService{
		ClassifiedEventsFunc: func(ctx context.Context) ([]anomaly.LabeledEvent, error) {
			return nil, errors.New("connection refused")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/events", nil)
	rec := httptest.NewRecorder()
	NewDashboardHandler(service).GetEvents(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetSummary(t *testing.T) {
	service := &MockDashboardService{
		SummaryFunc: func(ctx context.Context) (*services.DashboardSummary, error) {
			return &services.DashboardSummary{
				Total:        5,
				AnomalyCount: 2,
				NormalCount:  3,
				StatusCounts: map[string]int{
					models.StatusSuccess:           4,
					models.StatusDeniedBadPassword: 1,
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	NewDashboardHandler(service).GetSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp services.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, resp.AnomalyCount)
	assert.Equal(t, 4, resp.StatusCounts[models.StatusSuccess])
}
