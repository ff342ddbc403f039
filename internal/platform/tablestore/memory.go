package tablestore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTable is a mutex-guarded in-memory Table. It backs unit tests and
// the "memory" store backend used for local demos without credentials.
type MemoryTable struct {
	mu   sync.RWMutex
	rows [][]string

	// FailWrites forces every Append/UpdateCell to fail with ErrWrite.
	FailWrites bool
}

// NewMemoryTable creates a MemoryTable seeded with the given rows. The first
// row is conventionally the header row.
func NewMemoryTable(rows ...[]string) *MemoryTable {
	t := &MemoryTable{}
	for _, r := range rows {
		t.rows = append(t.rows, append([]string(nil), r...))
	}
	return t
}

func (t *MemoryTable) Rows(_ context.Context) ([][]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (t *MemoryTable) Append(_ context.Context, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.FailWrites {
		return ErrWrite
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (t *MemoryTable) UpdateCell(_ context.Context, rowIdx, colIdx int, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.FailWrites {
		return ErrWrite
	}
	if rowIdx < 1 || rowIdx > len(t.rows) {
		return fmt.Errorf("%w: row %d out of range", ErrWrite, rowIdx)
	}
	row := t.rows[rowIdx-1]
	for len(row) < colIdx {
		row = append(row, "")
	}
	row[colIdx-1] = value
	t.rows[rowIdx-1] = row
	return nil
}
