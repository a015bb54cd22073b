package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/bastion/internal/database"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CredentialRepository handles credential record data access
type CredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCredentialRow handles nullable fields and populates a CredentialRecord
// from a database row
func scanCredentialRow(scanner rowScanner) (*models.CredentialRecord, error) {
	var rec models.CredentialRecord
	var lastFailed *time.Time

	err := scanner.Scan(
		&rec.Username, &rec.PasswordHash, &rec.FailedAttempts,
		&lastFailed, &rec.IsLocked,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	rec.LastFailedLogin = lastFailed
	return &rec, nil
}

// GetByUsername looks up the credential record for a username. Returns
// models.ErrNotFound when the username is not registered.
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*models.CredentialRecord, error) {
	query := `
		SELECT username, password_hash, failed_attempts, last_failed_login, is_locked, created_at, updated_at
		FROM credentials WHERE username = $1
	`

	return scanCredentialRow(r.pool.QueryRow(ctx, query, username))
}

// Create registers a new credential record. Returns models.ErrConflict when
// the username is already taken; the existing record is left untouched.
func (r *CredentialRepository) Create(ctx context.Context, username, passwordHash string) (*models.CredentialRecord, error) {
	now := time.Now()

	query := `
		INSERT INTO credentials (username, password_hash, failed_attempts, is_locked, created_at, updated_at)
		VALUES ($1, $2, 0, false, $3, $3)
		RETURNING username, password_hash, failed_attempts, last_failed_login, is_locked, created_at, updated_at
	`

	return scanCredentialRow(r.pool.QueryRow(ctx, query, username, passwordHash, now))
}

// Update persists the mutable counter and lock fields of a record.
func (r *CredentialRepository) Update(ctx context.Context, rec *models.CredentialRecord) error {
	query := `
		UPDATE credentials
		SET failed_attempts = $1, last_failed_login = $2, is_locked = $3, updated_at = $4
		WHERE username = $5
	`

	result, err := r.pool.Exec(ctx, query,
		rec.FailedAttempts, rec.LastFailedLogin, rec.IsLocked, time.Now(), rec.Username,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
