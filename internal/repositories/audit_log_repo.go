package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/bastion/internal/database"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLogRepository handles the append-only login event trail
type AuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{pool: db.Pool}
}

const loginEventColumns = `id, username, ip_address, location, browser_family, device_family, status, message, occurred_at`

func scanLoginEventRow(row rowScanner) (*models.LoginEvent, error) {
	var e models.LoginEvent

	err := row.Scan(
		&e.ID, &e.Username, &e.IPAddress, &e.Location,
		&e.BrowserFamily, &e.DeviceFamily, &e.Status, &e.Message,
		&e.OccurredAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &e, nil
}

func scanLoginEventRows(rows pgx.Rows) ([]models.LoginEvent, error) {
	defer rows.Close()

	events := make([]models.LoginEvent, 0)

	for rows.Next() {
		e, err := scanLoginEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login event: %w", err)
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating login event rows: %w", err)
	}

	return events, nil
}

// Append inserts one login event. Events are never updated or deleted inside
// the retention window.
func (r *AuditLogRepository) Append(ctx context.Context, event *models.LoginEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO login_events (id, username, ip_address, location, browser_family, device_family, status, message, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.Username, event.IPAddress, event.Location,
		event.BrowserFamily, event.DeviceFamily, event.Status, event.Message,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append login event: %w", err)
	}

	return nil
}

// ScanAll returns every login event in ascending timestamp order, the stable
// order the anomaly classifier requires for first-occurrence detection.
func (r *AuditLogRepository) ScanAll(ctx context.Context) ([]models.LoginEvent, error) {
	query := `SELECT ` + loginEventColumns + ` FROM login_events ORDER BY occurred_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query login events: %w", err)
	}

	return scanLoginEventRows(rows)
}

// ScanAllDesc returns every login event newest first, for display.
func (r *AuditLogRepository) ScanAllDesc(ctx context.Context) ([]models.LoginEvent, error) {
	query := `SELECT ` + loginEventColumns + ` FROM login_events ORDER BY occurred_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query login events: %w", err)
	}

	return scanLoginEventRows(rows)
}

// CountByStatus aggregates event counts per status label.
func (r *AuditLogRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM login_events GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count login events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	return counts, nil
}

// Cleanup removes login events older than the specified number of days.
func (r *AuditLogRepository) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	query := `
		DELETE FROM login_events
		WHERE occurred_at < CURRENT_TIMESTAMP - INTERVAL '1 day' * $1
	`

	result, err := r.pool.Exec(ctx, query, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login events: %w", err)
	}

	return result.RowsAffected(), nil
}
