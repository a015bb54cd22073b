package background

import (
	"context"
	"log/slog"
	"time"
)

// AuditCleaner removes audit events past the retention window.
type AuditCleaner interface {
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

// CleanupManager periodically trims the login event trail to the configured
// retention window. Events inside the window are never touched; the trail
// stays append-only from the policy engine's point of view.
type CleanupManager struct {
	audit         AuditCleaner
	logger        *slog.Logger
	interval      time.Duration
	retentionDays int
	stopCh        chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(audit AuditCleaner, logger *slog.Logger, interval time.Duration, retentionDays int) *CleanupManager {
	return &CleanupManager{
		audit:         audit,
		logger:        logger,
		interval:      interval,
		retentionDays: retentionDays,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup removes login events past the retention window
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.audit.Cleanup(cleanupCtx, cm.retentionDays)
	if err != nil {
		cm.logger.Error("failed to cleanup login events", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("login event cleanup completed",
			slog.Int64("rows_deleted", rowsDeleted),
			slog.Int("retention_days", cm.retentionDays))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
