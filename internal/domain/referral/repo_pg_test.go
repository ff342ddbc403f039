package referral

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakePG struct {
	execTag   pgconn.CommandTag
	execErr   error
	execCalls int
	lastSQL   string
	lastArgs  []any
}

func (f *fakePG) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execCalls++
	f.lastSQL = sql
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakePG) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("query not faked")
}

func TestRepoPGUpdateFieldNoRowMatched(t *testing.T) {
	pg := &fakePG{execTag: pgconn.NewCommandTag("UPDATE 0")}
	repo := &repoPG{db: pg}

	err := repo.UpdateField(context.Background(), "missing-id", HeaderAcknowledged, AckYes)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
	if pg.execCalls != 1 {
		t.Errorf("exec calls = %d, want 1", pg.execCalls)
	}
}

func TestRepoPGUpdateFieldMatched(t *testing.T) {
	pg := &fakePG{execTag: pgconn.NewCommandTag("UPDATE 1")}
	repo := &repoPG{db: pg}

	if err := repo.UpdateField(context.Background(), "abc-123", HeaderAcknowledged, AckYes); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if !strings.Contains(pg.lastSQL, "SET acknowledged =") {
		t.Errorf("sql = %q, want acknowledged column", pg.lastSQL)
	}
	if len(pg.lastArgs) != 2 || pg.lastArgs[0] != AckYes || pg.lastArgs[1] != "abc-123" {
		t.Errorf("args = %v, want [Yes abc-123]", pg.lastArgs)
	}
}

func TestRepoPGUpdateFieldUnknownHeader(t *testing.T) {
	pg := &fakePG{}
	repo := &repoPG{db: pg}

	err := repo.UpdateField(context.Background(), "abc-123", "Not A Column", "x")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("err = %v, want ErrFieldNotFound", err)
	}
	if pg.execCalls != 0 {
		t.Errorf("exec calls = %d, want 0", pg.execCalls)
	}
}

func TestRepoPGUpdateFieldExecError(t *testing.T) {
	pg := &fakePG{execErr: errors.New("connection reset")}
	repo := &repoPG{db: pg}

	err := repo.UpdateField(context.Background(), "abc-123", HeaderNotes, "seen")
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("err = %v, want ErrStoreWrite", err)
	}
}

func TestRepoPGAppendExecError(t *testing.T) {
	pg := &fakePG{execErr: errors.New("connection reset")}
	repo := &repoPG{db: pg}

	err := repo.Append(context.Background(), &Referral{ID: "abc-123"})
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("err = %v, want ErrStoreWrite", err)
	}
}
