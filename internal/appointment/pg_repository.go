package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, token_number, session_id, patient_id, doctor_id,
	status, priority, appointment_type, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.TokenNumber,
		&a.SessionID,
		&a.PatientID,
		&a.DoctorID,
		&a.Status,
		&a.Priority,
		&a.Type,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

// BookToken performs the capacity check and increment as one conditional
// UPDATE, then inserts the appointment row, all inside one transaction. Two
// concurrent bookings against the last free token serialize on the row lock
// the UPDATE takes; the loser sees zero affected rows and the session is
// never overbooked.
func (r *PgRepository) BookToken(ctx context.Context, sessionID, patientID uuid.UUID, details BookingDetails) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var prefix string
	var issued int
	err = tx.QueryRow(ctx, `
		UPDATE sessions
		SET current_tokens = current_tokens + 1,
		    updated_at = now()
		WHERE id = $1
		  AND active
		  AND current_tokens < max_tokens
		RETURNING prefix, current_tokens
	`, sessionID).Scan(&prefix, &issued)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyBookingRefusal(ctx, sessionID)
		}
		return nil, fmt.Errorf("increment session counter: %w", err)
	}

	tokenNumber := prefix + strconv.Itoa(issued)
	id := uuid.New()

	row := tx.QueryRow(ctx, `
		INSERT INTO appointments (id, token_number, session_id, patient_id, doctor_id,
			status, priority, appointment_type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, tokenNumber, sessionID, patientID, details.DoctorID,
		StatusScheduled, details.Priority, details.Type, details.Notes)

	appt, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateToken
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}

	return appt, nil
}

// classifyBookingRefusal distinguishes why the conditional increment matched
// no row: missing session, inactive session, or a full one.
func (r *PgRepository) classifyBookingRefusal(ctx context.Context, sessionID uuid.UUID) error {
	var active bool
	var current, max int
	err := r.pool.QueryRow(ctx, `
		SELECT active, current_tokens, max_tokens
		FROM sessions
		WHERE id = $1
	`, sessionID).Scan(&active, &current, &max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("inspect session: %w", err)
	}
	if !active {
		return ErrSessionInactive
	}
	if current >= max {
		return ErrCapacityExceeded
	}
	// The session became bookable between our two statements; let the caller retry.
	return ErrCapacityExceeded
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]QueueEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.token_number, a.session_id, a.patient_id, a.doctor_id,
		       a.status, a.priority, a.appointment_type, a.notes, a.created_at, a.updated_at,
		       p.name, p.mrn
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.session_id = $1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []QueueEntry
	for rows.Next() {
		var e QueueEntry
		err := rows.Scan(
			&e.ID,
			&e.TokenNumber,
			&e.SessionID,
			&e.PatientID,
			&e.DoctorID,
			&e.Status,
			&e.Priority,
			&e.Type,
			&e.Notes,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.PatientName,
			&e.PatientMRN,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) ReleaseSlot(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET current_tokens = current_tokens - 1,
		    updated_at = now()
		WHERE id = $1
		  AND current_tokens > 0
	`, sessionID)
	if err != nil {
		return fmt.Errorf("release session slot: %w", err)
	}
	return nil
}

func (r *PgRepository) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)
	`, patientID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
