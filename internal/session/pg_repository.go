package session

import (
	"context"
	"errors"
	"time"

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

const sessionColumns = `id, name, prefix, session_date, start_time, end_time,
	max_tokens, current_tokens, active, doctor_id, created_at, updated_at`

func ScanSession(row pgx.Row) (*Session, error) {
	var s Session

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Prefix,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.MaxTokens,
		&s.CurrentTokens,
		&s.Active,
		&s.DoctorID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) Create(ctx context.Context, s *Session) (*Session, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO sessions (id, name, prefix, session_date, start_time, end_time,
			max_tokens, current_tokens, active, doctor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, now(), now())
		RETURNING `+sessionColumns+`
	`, id, s.Name, s.Prefix, s.Date, s.StartTime, s.EndTime, s.MaxTokens, s.Active, s.DoctorID)

	return ScanSession(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = $1
	`, id)
	return ScanSession(row)
}

func (r *PgRepository) ListByDate(ctx context.Context, date time.Time) ([]Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE session_date = $1
		ORDER BY start_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Session
	for rows.Next() {
		s, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE sessions
		SET active = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+sessionColumns+`
	`, id, active)
	return ScanSession(row)
}
