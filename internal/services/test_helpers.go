package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/bastion/internal/models"
)

// MockCredentialRepository implements CredentialRepository for testing
type MockCredentialRepository struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.CredentialRecord, error)
	CreateFunc        func(ctx context.Context, username, passwordHash string) (*models.CredentialRecord, error)
	UpdateFunc        func(ctx context.Context, rec *models.CredentialRecord) error
}

func (m *MockCredentialRepository) GetByUsername(ctx context.Context, username string) (*models.CredentialRecord, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockCredentialRepository) Create(ctx context.Context, username, passwordHash string) (*models.CredentialRecord, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, username, passwordHash)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCredentialRepository) Update(ctx context.Context, rec *models.CredentialRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rec)
	}
	return nil
}

// MockAuditLogRepository implements AuditLogRepository for testing
type MockAuditLogRepository struct {
	AppendFunc        func(ctx context.Context, event *models.LoginEvent) error
	ScanAllFunc       func(ctx context.Context) ([]models.LoginEvent, error)
	ScanAllDescFunc   func(ctx context.Context) ([]models.LoginEvent, error)
	CountByStatusFunc func(ctx context.Context) (map[string]int, error)
}

func (m *MockAuditLogRepository) Append(ctx context.Context, event *models.LoginEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	return nil
}

func (m *MockAuditLogRepository) ScanAll(ctx context.Context) ([]models.LoginEvent, error) {
	if m.ScanAllFunc != nil {
		return m.ScanAllFunc(ctx)
	}
	return []models.LoginEvent{}, nil
}

func (m *MockAuditLogRepository) ScanAllDesc(ctx context.Context) ([]models.LoginEvent, error) {
	if m.ScanAllDescFunc != nil {
		return m.ScanAllDescFunc(ctx)
	}
	return []models.LoginEvent{}, nil
}

func (m *MockAuditLogRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[string]int{}, nil
}

// MockResolver implements geo.Resolver for testing
type MockResolver struct {
	ResolveCountryFunc  func(ctx context.Context, address string) (string, error)
	ResolveLocationFunc func(ctx context.Context, address string) (string, error)
}

func (m *MockResolver) ResolveCountry(ctx context.Context, address string) (string, error) {
	if m.ResolveCountryFunc != nil {
		return m.ResolveCountryFunc(ctx, address)
	}
	return "IN", nil
}

func (m *MockResolver) ResolveLocation(ctx context.Context, address string) (string, error) {
	if m.ResolveLocationFunc != nil {
		return m.ResolveLocationFunc(ctx, address)
	}
	return "Mumbai, India", nil
}

// MockNotifier implements AlertNotifier for testing
type MockNotifier struct {
	NotifyLockoutFunc func(ctx context.Context, username, ipAddress string, lockedAt time.Time) error
}

func (m *MockNotifier) NotifyLockout(ctx context.Context, username, ipAddress string, lockedAt time.Time) error {
	if m.NotifyLockoutFunc != nil {
		return m.NotifyLockoutFunc(ctx, username, ipAddress, lockedAt)
	}
	return nil
}

// memCredentialStore is an in-memory CredentialRepository for tests that
// exercise real read-modify-write sequences, including concurrent ones.
type memCredentialStore struct {
	mu      sync.Mutex
	records map[string]models.CredentialRecord
}

func newMemCredentialStore(records ...models.CredentialRecord) *memCredentialStore {
	s := &memCredentialStore{records: make(map[string]models.CredentialRecord)}
	for _, rec := range records {
		s.records[rec.Username] = rec
	}
	return s
}

func (s *memCredentialStore) GetByUsername(ctx context.Context, username string) (*models.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username]
	if !ok {
		return nil, models.ErrNotFound
	}

	copied := rec
	return &copied, nil
}

func (s *memCredentialStore) Create(ctx context.Context, username, passwordHash string) (*models.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[username]; ok {
		return nil, models.ErrConflict
	}

	now := time.Now()
	rec := models.CredentialRecord{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.records[username] = rec

	copied := rec
	return &copied, nil
}

func (s *memCredentialStore) Update(ctx context.Context, rec *models.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.Username]; !ok {
		return models.ErrNotFound
	}

	s.records[rec.Username] = *rec
	return nil
}
