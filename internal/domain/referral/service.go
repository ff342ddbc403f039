package referral

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Service is the referral workflow controller. It holds no state of its own:
// every flow reloads from the store.
type Service struct {
	store Store

	// seams for tests
	now   func() time.Time
	newID func() string
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SubmitRequest carries the fields the referring PHC fills in.
type SubmitRequest struct {
	PatientName     string `json:"patient_name" form:"patient_name"`
	PatientDOB      string `json:"patient_dob" form:"patient_dob"`
	Gender          string `json:"gender" form:"gender"`
	PatientContact  string `json:"patient_contact" form:"patient_contact"`
	ReferringPHC    string `json:"referring_phc" form:"referring_phc"`
	ReferringDoctor string `json:"referring_doctor" form:"referring_doctor"`
	Diagnosis       string `json:"diagnosis" form:"diagnosis"`
}

// genderSelected reports whether a real gender was chosen rather than the
// form placeholder.
func genderSelected(g string) bool {
	return g != "" && g != "Select"
}

// Submit validates the request, stamps identity and time, and appends the
// record. Single attempt: a failed append is surfaced, never retried.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Referral, error) {
	var missing []string
	if req.PatientName == "" {
		missing = append(missing, "patient_name")
	}
	if req.PatientDOB == "" {
		missing = append(missing, "patient_dob")
	}
	if !genderSelected(req.Gender) {
		missing = append(missing, "gender")
	}
	if req.ReferringPHC == "" {
		missing = append(missing, "referring_phc")
	}
	if req.Diagnosis == "" {
		missing = append(missing, "diagnosis")
	}
	if req.ReferringDoctor == "" {
		missing = append(missing, "referring_doctor")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	r := &Referral{
		ID:              s.newID(),
		PatientName:     req.PatientName,
		PatientDOB:      req.PatientDOB,
		Gender:          req.Gender,
		PatientContact:  req.PatientContact,
		ReferringPHC:    req.ReferringPHC,
		ReferredAt:      s.now().Format(TimeLayout),
		Diagnosis:       req.Diagnosis,
		ReferringDoctor: req.ReferringDoctor,
		Acknowledged:    AckNo,
	}

	if err := s.store.Append(ctx, r); err != nil {
		return nil, fmt.Errorf("submit referral: %w", err)
	}
	return r, nil
}

// AckRequest carries the hospital's acknowledgment of a patient's arrival.
type AckRequest struct {
	ID             string `json:"referral_id" form:"referral_id"`
	PresentedAt    string `json:"presented_at" form:"presented_at"`
	AcknowledgedBy string `json:"acknowledged_by" form:"acknowledged_by"`
	Notes          string `json:"notes" form:"notes"`
}

// Acknowledge flips one pending record to acknowledged and records who
// received the patient and when. The acknowledgment group is written as four
// point updates in order; a mid-sequence failure stops there and is reported
// as-is — the record may be left partially updated, and masking that would
// hide data needing manual correction.
func (s *Service) Acknowledge(ctx context.Context, req AckRequest) error {
	var missing []string
	if req.ID == "" {
		missing = append(missing, "referral_id")
	}
	if req.PresentedAt == "" {
		missing = append(missing, "presented_at")
	}
	if req.AcknowledgedBy == "" {
		missing = append(missing, "acknowledged_by")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load referrals: %w", err)
	}
	var target *Referral
	for _, r := range records {
		if r.ID == req.ID {
			target = r
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, req.ID)
	}
	if !target.IsPending() {
		return fmt.Errorf("%w: %q", ErrAlreadyAcknowledged, req.ID)
	}

	updates := []struct{ header, value string }{
		{HeaderAcknowledged, AckYes},
		{HeaderPresentedAt, req.PresentedAt},
		{HeaderAcknowledgedBy, req.AcknowledgedBy},
		{HeaderNotes, req.Notes},
	}
	for i, u := range updates {
		if err := s.store.UpdateField(ctx, req.ID, u.header, u.value); err != nil {
			if i > 0 {
				return fmt.Errorf("acknowledge %q left partially updated after %d of %d fields: %w",
					req.ID, i, len(updates), err)
			}
			return fmt.Errorf("acknowledge %q: %w", req.ID, err)
		}
	}
	return nil
}

// Dashboard partitions all records by acknowledgment status. Every record
// lands in exactly one bucket, decided solely by the Acknowledged field.
type Dashboard struct {
	Pending   []*Referral `json:"pending"`
	Completed []*Referral `json:"completed"`
}

// Dashboard loads all records and partitions them: pending sorted by
// referral time descending, completed by presentation time descending.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load referrals: %w", err)
	}

	d := &Dashboard{}
	for _, r := range records {
		if r.IsPending() {
			d.Pending = append(d.Pending, r)
		} else {
			d.Completed = append(d.Completed, r)
		}
	}
	sort.SliceStable(d.Pending, func(i, j int) bool {
		return d.Pending[i].referredAtTime().After(d.Pending[j].referredAtTime())
	})
	sort.SliceStable(d.Completed, func(i, j int) bool {
		return d.Completed[i].presentedAtTime().After(d.Completed[j].presentedAtTime())
	})
	return d, nil
}

// List returns all records in store order.
func (s *Service) List(ctx context.Context) ([]*Referral, error) {
	return s.store.LoadAll(ctx)
}
