package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

type fakeGrid struct {
	rows [][]string

	valuesErr error
	appendErr error
	updateErr error

	appendCalls [][][]string
	updateRange string
	updateRows  [][]string
}

func (f *fakeGrid) Values(context.Context, string, string) ([][]string, error) {
	if f.valuesErr != nil {
		return nil, f.valuesErr
	}
	return f.rows, nil
}

func (f *fakeGrid) Append(_ context.Context, _ string, rows [][]string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendCalls = append(f.appendCalls, rows)
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeGrid) Update(_ context.Context, _ string, rng string, rows [][]string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateRange = rng
	f.updateRows = rows
	return nil
}

var testColumns = []string{"Name", "Class", "MyKid"}

func newTestTable(grid *fakeGrid) *SheetTable {
	return NewSheetTable(grid, "Students", testColumns)
}

func TestSheetTableUpsertAppendsWhenKeyAbsent(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		testColumns,
		{"Alice", "4A", "090101"},
	}}
	table := newTestTable(grid)

	outcome, err := table.Upsert(context.Background(), 2, "090202", []string{"Bala", "4B", "090202"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCreated, outcome)
	require.Len(t, grid.appendCalls, 1)
	assert.Empty(t, grid.updateRows)
	assert.Len(t, grid.rows, 3)
}

func TestSheetTableUpsertOverwritesExistingRowInPlace(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		testColumns,
		{"Alice", "4A", "090101"},
		{"Bala", "4B", "090202"},
	}}
	table := newTestTable(grid)

	outcome, err := table.Upsert(context.Background(), 2, "090101", []string{"Alicia", "4A", "090101"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)
	assert.Empty(t, grid.appendCalls)
	// Data row 1 lives on sheet row 2, bounded by the declared columns.
	assert.Equal(t, "A2:C2", grid.updateRange)
	require.Len(t, grid.updateRows, 1)
	assert.Equal(t, "Alicia", grid.updateRows[0][0])
}

func TestSheetTableUpsertNormalizesKeyBeforeMatching(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		testColumns,
		{"Alice", "4A", " 090101 "},
	}}
	table := newTestTable(grid)

	outcome, err := table.Upsert(context.Background(), 2, "  090101", []string{"Alice", "4A", "090101"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)
	assert.Equal(t, "A2:C2", grid.updateRange)
}

func TestSheetTableUpsertFirstMatchWinsOnDuplicates(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		testColumns,
		{"Alice", "4A", "090101"},
		{"Alice Old", "4A", "090101"},
	}}
	table := newTestTable(grid)

	outcome, err := table.Upsert(context.Background(), 2, "090101", []string{"Alicia", "4A", "090101"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)
	assert.Equal(t, "A2:C2", grid.updateRange)
}

func TestSheetTableUpsertRejectsEmptyKey(t *testing.T) {
	table := newTestTable(&fakeGrid{rows: [][]string{testColumns}})

	_, err := table.Upsert(context.Background(), 2, "   ", []string{"Alice", "4A", "   "})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSheetTableLoadRowsRejectsHeaderMismatch(t *testing.T) {
	grid := &fakeGrid{rows: [][]string{
		{"Name", "Klass", "MyKid"},
		{"Alice", "4A", "090101"},
	}}
	table := newTestTable(grid)

	_, err := table.LoadRows(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSchemaMismatch.Code, appErr.Code)
}

func TestSheetTableLoadRowsRejectsEmptyWorksheet(t *testing.T) {
	table := newTestTable(&fakeGrid{})

	_, err := table.LoadRows(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSchemaMismatch.Code, appErr.Code)
}

func TestSheetTableLoadRowsWrapsVendorFailure(t *testing.T) {
	table := newTestTable(&fakeGrid{valuesErr: errors.New("connection refused")})

	_, err := table.LoadRows(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSheetsUnavailable.Code, appErr.Code)
	assert.Equal(t, 503, appErr.Status)
}

func TestSheetTableUpsertWrapsWriteFailure(t *testing.T) {
	grid := &fakeGrid{
		rows:      [][]string{testColumns},
		appendErr: errors.New("boom"),
	}
	table := newTestTable(grid)

	_, err := table.Upsert(context.Background(), 2, "090101", []string{"Alice", "4A", "090101"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSheetsWrite.Code, appErr.Code)
	assert.Equal(t, 502, appErr.Status)
}

func TestSheetTableAppendRowsValidatesFieldCount(t *testing.T) {
	table := newTestTable(&fakeGrid{rows: [][]string{testColumns}})

	err := table.AppendRows(context.Background(), [][]string{{"too", "short"}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "G", columnLetter(6))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AT", columnLetter(45))
}
