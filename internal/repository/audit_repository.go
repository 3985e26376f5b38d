package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/rekod-api/internal/models"
)

// AuditRepository persists the optional write-action trail in Postgres.
// The spreadsheet remains the system of record; audit writes are
// best-effort and never block the record path.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts one audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_entries (id, actor, action, resource, record_key, outcome, payload, ip_address, created_at)
        VALUES (:id, :actor, :action, :resource, :record_key, :outcome, :payload, :ip_address, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries up to limit.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, actor, action, resource, record_key, outcome, payload, ip_address, created_at
        FROM audit_entries ORDER BY created_at DESC LIMIT %d`, limit)
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
