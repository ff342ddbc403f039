// Package referral implements the patient-referral record lifecycle: a PHC
// submits a referral, Gbagada General Hospital acknowledges the patient's
// arrival. All records live as rows in an external tabular store.
package referral

import (
	"fmt"
	"time"
)

// Timestamp formats used in the backing sheet.
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

// Acknowledged enum values. The field flips No -> Yes exactly once.
const (
	AckNo  = "No"
	AckYes = "Yes"
)

// Column headers, in sheet order. Header order is the append contract;
// header names are the update-by-name contract.
const (
	HeaderID              = "Referral ID"
	HeaderPatientName     = "Patient Name"
	HeaderPatientDOB      = "Date of Birth"
	HeaderGender          = "Gender"
	HeaderPatientContact  = "Patient Contact"
	HeaderReferringPHC    = "Referring PHC"
	HeaderReferredAt      = "Date/Time of Referral"
	HeaderDiagnosis       = "Diagnosis/Reason for Referral"
	HeaderReferringDoctor = "Referring Doctor"
	HeaderAcknowledged    = "Gbagada Acknowledged"
	HeaderPresentedAt     = "Date/Time of Presentation"
	HeaderAcknowledgedBy  = "Acknowledged By"
	HeaderNotes           = "Gbagada Notes"
)

// Headers lists all column headers in sheet order.
var Headers = []string{
	HeaderID,
	HeaderPatientName,
	HeaderPatientDOB,
	HeaderGender,
	HeaderPatientContact,
	HeaderReferringPHC,
	HeaderReferredAt,
	HeaderDiagnosis,
	HeaderReferringDoctor,
	HeaderAcknowledged,
	HeaderPresentedAt,
	HeaderAcknowledgedBy,
	HeaderNotes,
}

// Gender options offered by the submission form. "Select" is the placeholder
// and never a valid value.
var GenderOptions = []string{"Male", "Female", "Other"}

// Referral is one referral record, mirroring the 13 sheet columns.
type Referral struct {
	ID              string `json:"referral_id"`
	PatientName     string `json:"patient_name"`
	PatientDOB      string `json:"patient_dob"`
	Gender          string `json:"gender"`
	PatientContact  string `json:"patient_contact"`
	ReferringPHC    string `json:"referring_phc"`
	ReferredAt      string `json:"referred_at"`
	Diagnosis       string `json:"diagnosis"`
	ReferringDoctor string `json:"referring_doctor"`
	Acknowledged    string `json:"acknowledged"`
	PresentedAt     string `json:"presented_at,omitempty"`
	AcknowledgedBy  string `json:"acknowledged_by,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// IsPending reports whether the record still awaits acknowledgment.
func (r *Referral) IsPending() bool { return r.Acknowledged != AckYes }

// ToRow serializes the record as the 13 ordered cells the append contract
// requires.
func (r *Referral) ToRow() []string {
	return []string{
		r.ID,
		r.PatientName,
		r.PatientDOB,
		r.Gender,
		r.PatientContact,
		r.ReferringPHC,
		r.ReferredAt,
		r.Diagnosis,
		r.ReferringDoctor,
		r.Acknowledged,
		r.PresentedAt,
		r.AcknowledgedBy,
		r.Notes,
	}
}

// FromRow parses one data row. Rows shorter than the header are padded with
// empty cells: the sheet API omits trailing empties, and the acknowledgment
// group is empty until acknowledged.
func FromRow(row []string) (*Referral, error) {
	if len(row) == 0 || row[0] == "" {
		return nil, fmt.Errorf("row has no referral id")
	}
	cells := make([]string, len(Headers))
	copy(cells, row)

	r := &Referral{
		ID:              cells[0],
		PatientName:     cells[1],
		PatientDOB:      cells[2],
		Gender:          cells[3],
		PatientContact:  cells[4],
		ReferringPHC:    cells[5],
		ReferredAt:      cells[6],
		Diagnosis:       cells[7],
		ReferringDoctor: cells[8],
		Acknowledged:    cells[9],
		PresentedAt:     cells[10],
		AcknowledgedBy:  cells[11],
		Notes:           cells[12],
	}
	if r.Acknowledged == "" {
		r.Acknowledged = AckNo
	}
	return r, nil
}

// referredAtTime parses ReferredAt for sorting; zero time when unparseable so
// malformed rows sort last rather than erroring out the whole dashboard.
func (r *Referral) referredAtTime() time.Time {
	t, _ := time.Parse(TimeLayout, r.ReferredAt)
	return t
}

func (r *Referral) presentedAtTime() time.Time {
	t, _ := time.Parse(TimeLayout, r.PresentedAt)
	return t
}
