package referral

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// -- Mock Store --

type fieldUpdate struct {
	id, header, value string
}

type mockStore struct {
	records []*Referral
	updates []fieldUpdate

	failLoad   error
	failAppend error
	failAtCall int // 1-based UpdateField call number that fails, 0 = never
}

func (m *mockStore) LoadAll(_ context.Context) ([]*Referral, error) {
	if m.failLoad != nil {
		return nil, m.failLoad
	}
	return m.records, nil
}

func (m *mockStore) Append(_ context.Context, r *Referral) error {
	if m.failAppend != nil {
		return m.failAppend
	}
	m.records = append(m.records, r)
	return nil
}

func (m *mockStore) UpdateField(_ context.Context, id, header, value string) error {
	if m.failAtCall > 0 && len(m.updates)+1 == m.failAtCall {
		return fmt.Errorf("%w: transport fault", ErrStoreWrite)
	}
	for _, r := range m.records {
		if r.ID == id {
			m.updates = append(m.updates, fieldUpdate{id, header, value})
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
}

func validSubmit() SubmitRequest {
	return SubmitRequest{
		PatientName:     "Jane Doe",
		PatientDOB:      "1990-01-01",
		Gender:          "Female",
		PatientContact:  "08012345678",
		ReferringPHC:    "Ikosi PHC",
		ReferringDoctor: "Dr. Ade",
		Diagnosis:       "Fever",
	}
}

// -- Submit --

func TestSubmit(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	r, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == "" {
		t.Error("expected generated referral id")
	}
	if r.ReferredAt != "2024-01-01 09:00:00" {
		t.Errorf("expected stamped referral time, got %q", r.ReferredAt)
	}
	if r.Acknowledged != AckNo || r.PresentedAt != "" || r.AcknowledgedBy != "" || r.Notes != "" {
		t.Errorf("acknowledgment group should be at defaults, got %+v", r)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 appended record, got %d", len(store.records))
	}

	row := store.records[0].ToRow()
	if len(row) != 13 || row[9] != "No" || row[10] != "" || row[11] != "" || row[12] != "" {
		t.Errorf("append row contract violated: %v", row)
	}
}

func TestSubmit_UniqueIDs(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r, err := svc.Submit(context.Background(), validSubmit())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate referral id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	req := validSubmit()
	req.Diagnosis = ""
	req.Gender = "Select" // placeholder, not a selection

	_, err := svc.Submit(context.Background(), req)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected *ValidationError")
	}
	want := map[string]bool{"gender": true, "diagnosis": true}
	if len(verr.Missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", verr.Missing)
	}
	for _, f := range verr.Missing {
		if !want[f] {
			t.Errorf("unexpected missing field %q", f)
		}
	}
	if len(store.records) != 0 {
		t.Error("no append should happen on validation failure")
	}
}

func TestSubmit_AppendFailureSurfacedOnce(t *testing.T) {
	store := &mockStore{failAppend: fmt.Errorf("%w: quota", ErrStoreWrite)}
	svc := NewService(store)

	_, err := svc.Submit(context.Background(), validSubmit())
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
}

// -- Acknowledge --

func pendingRecord(id string) *Referral {
	return &Referral{
		ID:           id,
		PatientName:  "Jane Doe",
		ReferredAt:   "2024-01-01 09:00:00",
		Acknowledged: AckNo,
	}
}

func validAck(id string) AckRequest {
	return AckRequest{
		ID:             id,
		PresentedAt:    "2024-01-01 10:00:00",
		AcknowledgedBy: "Nurse A",
		Notes:          "stable",
	}
}

func TestAcknowledge(t *testing.T) {
	store := &mockStore{records: []*Referral{pendingRecord("abc-123")}}
	svc := NewService(store)

	if err := svc.Acknowledge(context.Background(), validAck("abc-123")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.updates) != 4 {
		t.Fatalf("expected exactly 4 field updates, got %d", len(store.updates))
	}
	want := []fieldUpdate{
		{"abc-123", HeaderAcknowledged, "Yes"},
		{"abc-123", HeaderPresentedAt, "2024-01-01 10:00:00"},
		{"abc-123", HeaderAcknowledgedBy, "Nurse A"},
		{"abc-123", HeaderNotes, "stable"},
	}
	for i, u := range want {
		if store.updates[i] != u {
			t.Errorf("update %d: expected %+v, got %+v", i, u, store.updates[i])
		}
	}
}

func TestAcknowledge_EmptyNotesStillWritten(t *testing.T) {
	store := &mockStore{records: []*Referral{pendingRecord("abc-123")}}
	svc := NewService(store)

	req := validAck("abc-123")
	req.Notes = ""
	if err := svc.Acknowledge(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.updates) != 4 {
		t.Fatalf("expected 4 updates, got %d", len(store.updates))
	}
	if store.updates[3].value != "" {
		t.Errorf("notes cell should be written empty, got %q", store.updates[3].value)
	}
}

func TestAcknowledge_MissingFields(t *testing.T) {
	store := &mockStore{records: []*Referral{pendingRecord("abc-123")}}
	svc := NewService(store)

	err := svc.Acknowledge(context.Background(), AckRequest{ID: "abc-123"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Error("no cells should be mutated on validation failure")
	}
}

func TestAcknowledge_UnknownID(t *testing.T) {
	store := &mockStore{records: []*Referral{pendingRecord("abc-123")}}
	svc := NewService(store)

	err := svc.Acknowledge(context.Background(), validAck("missing-id"))
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Error("zero cells should be mutated for an unknown id")
	}
}

func TestAcknowledge_AlreadyAcknowledged(t *testing.T) {
	done := pendingRecord("abc-123")
	done.Acknowledged = AckYes
	store := &mockStore{records: []*Referral{done}}
	svc := NewService(store)

	err := svc.Acknowledge(context.Background(), validAck("abc-123"))
	if !errors.Is(err, ErrAlreadyAcknowledged) {
		t.Fatalf("expected ErrAlreadyAcknowledged, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Error("acknowledged records must never be written again")
	}
}

func TestAcknowledge_MidSequenceFailureStops(t *testing.T) {
	store := &mockStore{
		records:    []*Referral{pendingRecord("abc-123")},
		failAtCall: 3,
	}
	svc := NewService(store)

	err := svc.Acknowledge(context.Background(), validAck("abc-123"))
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("expected ErrStoreWrite, got %v", err)
	}
	// Two fields were written before the failure; nothing after it.
	if len(store.updates) != 2 {
		t.Errorf("expected 2 completed updates before failure, got %d", len(store.updates))
	}
}

// -- Dashboard --

func TestDashboard_Partition(t *testing.T) {
	records := []*Referral{
		{ID: "a", Acknowledged: AckNo, ReferredAt: "2024-01-01 09:00:00"},
		{ID: "b", Acknowledged: AckYes, PresentedAt: "2024-01-02 10:00:00"},
		{ID: "c", Acknowledged: AckNo, ReferredAt: "2024-01-03 09:00:00"},
		{ID: "d", Acknowledged: AckYes, PresentedAt: "2024-01-01 10:00:00"},
	}
	svc := NewService(&mockStore{records: records})

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Pending)+len(d.Completed) != len(records) {
		t.Fatalf("partition lost records: %d + %d != %d", len(d.Pending), len(d.Completed), len(records))
	}
	for _, r := range d.Pending {
		if !r.IsPending() {
			t.Errorf("record %s misfiled as pending", r.ID)
		}
	}
	for _, r := range d.Completed {
		if r.IsPending() {
			t.Errorf("record %s misfiled as completed", r.ID)
		}
	}

	// Pending newest referral first, completed newest presentation first.
	if d.Pending[0].ID != "c" || d.Pending[1].ID != "a" {
		t.Errorf("pending order wrong: %s, %s", d.Pending[0].ID, d.Pending[1].ID)
	}
	if d.Completed[0].ID != "b" || d.Completed[1].ID != "d" {
		t.Errorf("completed order wrong: %s, %s", d.Completed[0].ID, d.Completed[1].ID)
	}
}

func TestDashboard_LoadFailure(t *testing.T) {
	svc := NewService(&mockStore{failLoad: fmt.Errorf("%w: 404", ErrStoreUnavailable)})

	_, err := svc.Dashboard(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
