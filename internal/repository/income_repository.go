package repository

import (
	"context"

	"github.com/sekolahku/rekod-api/internal/models"
)

// incomeKeyColumn is the position of the MyKid column in the income
// schema.
const incomeKeyColumn = 0

// IncomeRepository maps the income worksheet onto IncomeRecord values.
type IncomeRepository struct {
	table *SheetTable
}

// NewIncomeRepository binds the income worksheet.
func NewIncomeRepository(grid gridClient, sheet string) *IncomeRepository {
	return &IncomeRepository{table: NewSheetTable(grid, sheet, models.IncomeColumns)}
}

// List loads all income records in sheet order.
func (r *IncomeRepository) List(ctx context.Context) ([]models.IncomeRecord, error) {
	rows, err := r.table.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]models.IncomeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.IncomeFromRow(row))
	}
	return records, nil
}

// Upsert writes the full record keyed by MyKid.
func (r *IncomeRepository) Upsert(ctx context.Context, record models.IncomeRecord) (models.UpsertOutcome, error) {
	return r.table.Upsert(ctx, incomeKeyColumn, record.MyKid, record.Row())
}
