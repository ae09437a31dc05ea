package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const prescriptionColumns = `id, patient_id, doctor_id, appointment_id, symptoms,
	diagnosis, notes, medicines, lab_tests, therapies, status, created_at, updated_at`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription

	err := row.Scan(
		&p.ID,
		&p.PatientID,
		&p.DoctorID,
		&p.AppointmentID,
		&p.Symptoms,
		&p.Diagnosis,
		&p.Notes,
		&p.Medicines,
		&p.LabTests,
		&p.Therapies,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_id, appointment_id, symptoms,
			diagnosis, notes, medicines, lab_tests, therapies, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+prescriptionColumns+`
	`, id, p.PatientID, p.DoctorID, p.AppointmentID, p.Symptoms,
		p.Diagnosis, p.Notes, p.Medicines, p.LabTests, p.Therapies, StatusDraft)

	return scanPrescription(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE id = $1
	`, id)
	return scanPrescription(row)
}

func (r *PgRepository) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE prescriptions
		SET symptoms = $2,
		    diagnosis = $3,
		    notes = $4,
		    medicines = $5,
		    lab_tests = $6,
		    therapies = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+prescriptionColumns+`
	`, p.ID, p.Symptoms, p.Diagnosis, p.Notes, p.Medicines, p.LabTests, p.Therapies)
	return scanPrescription(row)
}

func (r *PgRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Prescription, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE prescriptions
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+prescriptionColumns+`
	`, id, to, from)
	return scanPrescription(row)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
