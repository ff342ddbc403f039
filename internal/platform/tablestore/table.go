// Package tablestore provides raw access to the tabular backing store that
// holds all referral rows. A Table is a single worksheet: row 1 is the header
// row, data rows follow. Cell coordinates are 1-based to match the sheet UI.
package tablestore

import (
	"context"
	"errors"
)

// Sentinel errors for table operations.
var (
	ErrNotFound     = errors.New("table not found")
	ErrUnauthorized = errors.New("table access unauthorized")
	ErrWrite        = errors.New("table write failed")
)

// Table is the minimal contract the referral store needs from the backing
// worksheet: read everything, append one row, update one cell.
type Table interface {
	// Rows returns all rows including the header row, in sheet order.
	Rows(ctx context.Context) ([][]string, error)

	// Append adds one row after the last non-empty row. The row is written
	// all-or-nothing at the store's granularity.
	Append(ctx context.Context, row []string) error

	// UpdateCell writes a single cell. rowIdx and colIdx are 1-based;
	// rowIdx 1 is the header row.
	UpdateCell(ctx context.Context, rowIdx, colIdx int, value string) error
}
