package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/kosofe-health/referral/internal/platform/tablestore"
)

type sheetStore struct {
	table tablestore.Table
}

// NewSheetStore builds a Store over a raw Table (Google Sheets in
// production, an in-memory table in tests and demo mode). Row 1 of the table
// is the header row.
func NewSheetStore(table tablestore.Table) Store {
	return &sheetStore{table: table}
}

func (s *sheetStore) LoadAll(ctx context.Context) ([]*Referral, error) {
	rows, err := s.table.Rows(ctx)
	if err != nil {
		return nil, wrapTableErr(err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header row missing", ErrStoreUnavailable)
	}

	records := make([]*Referral, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r, err := FromRow(row)
		if err != nil {
			// Blank or half-typed rows in the sheet are skipped, not fatal.
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *sheetStore) Append(ctx context.Context, r *Referral) error {
	if err := s.table.Append(ctx, r.ToRow()); err != nil {
		return wrapTableErr(err)
	}
	return nil
}

// UpdateField scans the id column and header row on every call. The column
// lookup is deliberately index-free so a reordered sheet keeps working.
func (s *sheetStore) UpdateField(ctx context.Context, id, header, value string) error {
	rows, err := s.table.Rows(ctx)
	if err != nil {
		return wrapTableErr(err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: header row missing", ErrStoreUnavailable)
	}

	colIdx := 0
	for i, h := range rows[0] {
		if h == header {
			colIdx = i + 1
			break
		}
	}
	if colIdx == 0 {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, header)
	}

	rowIdx := 0
	for i, row := range rows[1:] {
		if len(row) > 0 && row[0] == id {
			rowIdx = i + 2 // +1 for header row, +1 for 1-based indexing
			break
		}
	}
	if rowIdx == 0 {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}

	if err := s.table.UpdateCell(ctx, rowIdx, colIdx, value); err != nil {
		return wrapTableErr(err)
	}
	return nil
}

func wrapTableErr(err error) error {
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	case errors.Is(err, tablestore.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrStoreAuth, err)
	case errors.Is(err, tablestore.ErrWrite):
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	default:
		return err
	}
}
