package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sekolahku/rekod-api/internal/models"
	appErrors "github.com/sekolahku/rekod-api/pkg/errors"
)

// gridClient is the slice of the vendor client the tables need.
type gridClient interface {
	Values(ctx context.Context, sheet, rng string) ([][]string, error)
	Append(ctx context.Context, sheet string, rows [][]string) error
	Update(ctx context.Context, sheet, rng string, rows [][]string) error
}

// SheetTable binds one worksheet to a declared column schema. Row 1 is
// the header and must equal the schema exactly; everything below is
// data, addressed by 1-based data-row index.
//
// A per-table mutex serialises scan-then-write sequences so an upsert
// can never race another writer in this process. Cross-process editors
// remain uncoordinated (documented limitation).
type SheetTable struct {
	grid    gridClient
	sheet   string
	columns []string

	mu sync.Mutex
}

// NewSheetTable constructs a table binding.
func NewSheetTable(grid gridClient, sheet string, columns []string) *SheetTable {
	return &SheetTable{grid: grid, sheet: sheet, columns: columns}
}

// Sheet returns the bound worksheet name.
func (t *SheetTable) Sheet() string { return t.sheet }

// LoadRows reads the full worksheet, verifies the header row against
// the declared schema and returns the data rows. A header mismatch
// fails fast instead of silently misaligning fields.
func (t *SheetTable) LoadRows(ctx context.Context) ([][]string, error) {
	rows, err := t.grid.Values(ctx, t.sheet, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSheetsUnavailable.Code, appErrors.ErrSheetsUnavailable.Status, fmt.Sprintf("read worksheet %s", t.sheet))
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSchemaMismatch, fmt.Sprintf("worksheet %s has no header row", t.sheet))
	}
	if err := t.checkHeader(rows[0]); err != nil {
		return nil, err
	}
	return rows[1:], nil
}

// AppendRow adds one data row at the end of the worksheet.
func (t *SheetTable) AppendRow(ctx context.Context, fields []string) error {
	return t.AppendRows(ctx, [][]string{fields})
}

// AppendRows adds a batch of data rows in a single vendor call.
func (t *SheetTable) AppendRows(ctx context.Context, rows [][]string) error {
	for _, fields := range rows {
		if len(fields) != len(t.columns) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row has %d fields, worksheet %s declares %d columns", len(fields), t.sheet, len(t.columns)))
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.grid.Append(ctx, t.sheet, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSheetsWrite.Code, appErrors.ErrSheetsWrite.Status, fmt.Sprintf("append to worksheet %s", t.sheet))
	}
	return nil
}

// OverwriteRow replaces the data row at the given 1-based index in one
// call. The target range is computed from the declared column count so
// the write can never clip or spill into trailing columns.
func (t *SheetTable) OverwriteRow(ctx context.Context, dataRow int, fields []string) error {
	if len(fields) != len(t.columns) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row has %d fields, worksheet %s declares %d columns", len(fields), t.sheet, len(t.columns)))
	}
	if dataRow < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "row index must be positive")
	}
	rng := t.rowRange(dataRow)
	if err := t.grid.Update(ctx, t.sheet, rng, [][]string{fields}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSheetsWrite.Code, appErrors.ErrSheetsWrite.Status, fmt.Sprintf("overwrite row %d of worksheet %s", dataRow, t.sheet))
	}
	return nil
}

// Upsert finds the data row whose key column equals the candidate key
// (both normalised, exact string equality) and overwrites it, or
// appends when absent. First match wins when the sheet already holds
// duplicate keys from earlier corrupted writes. The scan and the write
// happen under one lock.
func (t *SheetTable) Upsert(ctx context.Context, keyCol int, key string, fields []string) (models.UpsertOutcome, error) {
	key = models.NormalizeKey(key)
	if key == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "record key is required")
	}
	if keyCol < 0 || keyCol >= len(t.columns) {
		return "", appErrors.Clone(appErrors.ErrInternal, "key column outside declared schema")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.LoadRows(ctx)
	if err != nil {
		return "", err
	}
	for i, row := range rows {
		var existing string
		if keyCol < len(row) {
			existing = models.NormalizeKey(row[keyCol])
		}
		if existing == key {
			if err := t.OverwriteRow(ctx, i+1, fields); err != nil {
				return "", err
			}
			return models.OutcomeUpdated, nil
		}
	}
	if err := t.grid.Append(ctx, t.sheet, [][]string{fields}); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrSheetsWrite.Code, appErrors.ErrSheetsWrite.Status, fmt.Sprintf("append to worksheet %s", t.sheet))
	}
	return models.OutcomeCreated, nil
}

func (t *SheetTable) checkHeader(header []string) error {
	if len(header) != len(t.columns) {
		return appErrors.Clone(appErrors.ErrSchemaMismatch, fmt.Sprintf("worksheet %s header has %d columns, expected %d", t.sheet, len(header), len(t.columns)))
	}
	for i, want := range t.columns {
		if strings.TrimSpace(header[i]) != want {
			return appErrors.Clone(appErrors.ErrSchemaMismatch, fmt.Sprintf("worksheet %s column %d is %q, expected %q", t.sheet, i+1, strings.TrimSpace(header[i]), want))
		}
	}
	return nil
}

// rowRange computes the exact A1 range covering one data row, e.g.
// A3:G3 for data row 2 of a seven-column table.
func (t *SheetTable) rowRange(dataRow int) string {
	sheetRow := dataRow + 1 // header offset
	return fmt.Sprintf("A%d:%s%d", sheetRow, columnLetter(len(t.columns)-1), sheetRow)
}

// columnLetter converts a zero-based column index to its A1 letter.
func columnLetter(index int) string {
	letters := ""
	n := index
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return letters
}
