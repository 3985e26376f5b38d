package repository

import (
	"context"

	"github.com/sekolahku/rekod-api/internal/models"
)

// AttendanceRepository maps the attendance worksheet onto journal
// entries. The journal is strictly append-only.
type AttendanceRepository struct {
	table *SheetTable
}

// NewAttendanceRepository binds the attendance worksheet.
func NewAttendanceRepository(grid gridClient, sheet string) *AttendanceRepository {
	return &AttendanceRepository{table: NewSheetTable(grid, sheet, models.AttendanceColumns)}
}

// List loads the full journal in sheet (chronological) order.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.AttendanceEntry, error) {
	rows, err := r.table.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]models.AttendanceEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.AttendanceFromRow(row))
	}
	return entries, nil
}

// Append writes a batch of roll-call entries in one vendor call.
func (r *AttendanceRepository) Append(ctx context.Context, entries []models.AttendanceEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Row())
	}
	return r.table.AppendRows(ctx, rows)
}
