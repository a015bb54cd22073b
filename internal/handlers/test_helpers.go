package handlers

import (
	"context"

	"github.com/BradenHooton/bastion/internal/anomaly"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/BradenHooton/bastion/internal/services"
)

// MockLoginService implements LoginServiceInterface for testing
type MockLoginService struct {
	AttemptLoginFunc func(ctx context.Context, attempt services.LoginAttempt) (*models.Decision, error)
	RegisterFunc     func(ctx context.Context, username, password, ipAddress string) (*models.CredentialRecord, error)
	ResetLockoutFunc func(ctx context.Context, username, actorIP string) error
}

func (m *MockLoginService) AttemptLogin(ctx context.Context, attempt services.LoginAttempt) (*models.Decision, error) {
	if m.AttemptLoginFunc != nil {
		return m.AttemptLoginFunc(ctx, attempt)
	}
	return nil, models.ErrInternalServer
}

func (m *MockLoginService) Register(ctx context.Context, username, password, ipAddress string) (*models.CredentialRecord, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, ipAddress)
	}
	return nil, models.ErrInternalServer
}

func (m *MockLoginService) ResetLockout(ctx context.Context, username, actorIP string) error {
	if m.ResetLockoutFunc != nil {
		return m.ResetLockoutFunc(ctx, username, actorIP)
	}
	return nil
}

// MockDashboardService implements DashboardServiceInterface for testing
type MockDashboardService struct {
	ClassifiedEventsFunc func(ctx context.Context) ([]anomaly.LabeledEvent, error)
	SummaryFunc          func(ctx context.Context) (*services.DashboardSummary, error)
}

func (m *MockDashboardService) ClassifiedEvents(ctx context.Context) ([]anomaly.LabeledEvent, error) {
	if m.ClassifiedEventsFunc != nil {
		return m.ClassifiedEventsFunc(ctx)
	}
	return []anomaly.LabeledEvent{}, nil
}

func (m *MockDashboardService) Summary(ctx context.Context) (*services.DashboardSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &services.DashboardSummary{StatusCounts: map[string]int{}}, nil
}
