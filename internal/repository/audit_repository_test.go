package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
)

func newAuditMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditEntry{
		Actor:     "guru@sekolah.local",
		Action:    models.AuditActionUpsertStudent,
		Resource:  "students",
		RecordKey: "090101-01-0001",
		Outcome:   "updated",
	}
	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryRecent(t *testing.T) {
	db, mock, cleanup := newAuditMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"id", "actor", "action", "resource", "record_key", "outcome", "payload", "ip_address", "created_at"}).
		AddRow("1", "guru@sekolah.local", models.AuditActionRollCall, "attendance", "2026-03-02/4A", "", []byte(`{}`), "127.0.0.1", time.Now())
	mock.ExpectQuery("FROM audit_entries ORDER BY created_at DESC LIMIT 50").
		WillReturnRows(rows)

	entries, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionRollCall, entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
