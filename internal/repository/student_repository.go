package repository

import (
	"context"

	"github.com/sekolahku/rekod-api/internal/models"
)

// studentKeyColumn is the position of the MyKid column in the roster
// schema.
const studentKeyColumn = 2

// StudentRepository maps the roster worksheet onto Student records.
type StudentRepository struct {
	table *SheetTable
}

// NewStudentRepository binds the roster worksheet.
func NewStudentRepository(grid gridClient, sheet string) *StudentRepository {
	return &StudentRepository{table: NewSheetTable(grid, sheet, models.StudentColumns)}
}

// List loads the full roster in sheet order.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	rows, err := r.table.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, models.StudentFromRow(row))
	}
	return students, nil
}

// Upsert writes the full record keyed by MyKid: the matching row is
// overwritten in place, otherwise a new row is appended.
func (r *StudentRepository) Upsert(ctx context.Context, student models.Student) (models.UpsertOutcome, error) {
	return r.table.Upsert(ctx, studentKeyColumn, student.MyKid, student.Row())
}
