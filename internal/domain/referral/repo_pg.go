package referral

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the slice of pgxpool.Pool the repo needs.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	db pgQuerier
}

// NewRepoPG builds a Store over a Postgres referral table, for deployments
// without a Google service account. Semantics match the sheet store:
// point updates by header name, no cross-field transaction.
func NewRepoPG(pool *pgxpool.Pool) Store {
	return &repoPG{db: pool}
}

// headerColumns maps sheet header names to table columns. Unknown headers
// are ErrFieldNotFound, mirroring a header scan miss on the sheet.
var headerColumns = map[string]string{
	HeaderID:              "referral_id",
	HeaderPatientName:     "patient_name",
	HeaderPatientDOB:      "patient_dob",
	HeaderGender:          "gender",
	HeaderPatientContact:  "patient_contact",
	HeaderReferringPHC:    "referring_phc",
	HeaderReferredAt:      "referred_at",
	HeaderDiagnosis:       "diagnosis",
	HeaderReferringDoctor: "referring_doctor",
	HeaderAcknowledged:    "acknowledged",
	HeaderPresentedAt:     "presented_at",
	HeaderAcknowledgedBy:  "acknowledged_by",
	HeaderNotes:           "notes",
}

const refCols = `referral_id, patient_name, patient_dob, gender, patient_contact,
	referring_phc, referred_at, diagnosis, referring_doctor,
	acknowledged, presented_at, acknowledged_by, notes`

func (r *repoPG) LoadAll(ctx context.Context) ([]*Referral, error) {
	rows, err := r.db.Query(ctx, `SELECT `+refCols+` FROM referral ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []*Referral
	for rows.Next() {
		rec := &Referral{}
		if err := rows.Scan(
			&rec.ID, &rec.PatientName, &rec.PatientDOB, &rec.Gender, &rec.PatientContact,
			&rec.ReferringPHC, &rec.ReferredAt, &rec.Diagnosis, &rec.ReferringDoctor,
			&rec.Acknowledged, &rec.PresentedAt, &rec.AcknowledgedBy, &rec.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}

func (r *repoPG) Append(ctx context.Context, rec *Referral) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO referral (`+refCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.PatientName, rec.PatientDOB, rec.Gender, rec.PatientContact,
		rec.ReferringPHC, rec.ReferredAt, rec.Diagnosis, rec.ReferringDoctor,
		rec.Acknowledged, rec.PresentedAt, rec.AcknowledgedBy, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

func (r *repoPG) UpdateField(ctx context.Context, id, header, value string) error {
	col, ok := headerColumns[header]
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, header)
	}

	// col comes from the whitelist above, never from the caller.
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE referral SET %s = $1 WHERE referral_id = $2`, col),
		value, id,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	return nil
}
