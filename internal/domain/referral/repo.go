package referral

import "context"

// Store is the referral store adapter contract. Both the Google Sheets and
// the Postgres backends implement it; the workflow service depends on
// nothing else.
type Store interface {
	// LoadAll fetches every record in store (insertion) order. Returns
	// ErrStoreUnavailable or ErrStoreAuth when the table is unreachable.
	LoadAll(ctx context.Context) ([]*Referral, error)

	// Append writes one fully-formed record as a new row at the end,
	// all-or-nothing. Returns ErrStoreWrite on failure.
	Append(ctx context.Context, r *Referral) error

	// UpdateField writes a single cell, located by scanning the id column
	// for an exact match and the header row for the column name. Point
	// update only: no isolation against concurrent writers. Returns
	// ErrRecordNotFound, ErrFieldNotFound, or ErrStoreWrite.
	UpdateField(ctx context.Context, id, header, value string) error
}
