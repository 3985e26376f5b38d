package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// AuditService fronts the optional write-action trail. With no backing
// store configured it degrades to a no-op: Record drops entries and
// Recent reports the feature as unavailable.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs the audit service. repo may be nil.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Enabled reports whether a backing store is configured.
func (s *AuditService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record stores one audit entry, best-effort. Failures are logged and
// never surface to the write path.
func (s *AuditService) Record(ctx context.Context, entry models.AuditEntry) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", entry.Action),
			zap.String("record_key", entry.RecordKey),
			zap.Error(err),
		)
	}
}

// Recent returns the newest audit entries up to limit.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "audit trail is not enabled")
	}
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read audit trail")
	}
	return entries, nil
}
