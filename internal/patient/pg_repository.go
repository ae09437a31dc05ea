package patient

import (
	"context"
	"errors"

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

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.MRN,
		&p.Name,
		&p.Phone,
		&p.Email,
		&p.Gender,
		&p.BirthDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, mrn, name, phone, email, gender, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, mrn, name, phone, email, gender, birth_date, created_at, updated_at
	`, id, p.MRN, p.Name, p.Phone, p.Email, p.Gender, p.BirthDate)

	created, err := scanPatient(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateMRN
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, mrn, name, phone, email, gender, birth_date, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, mrn, name, phone, email, gender, birth_date, created_at, updated_at
		FROM patients
		WHERE mrn = $1
	`, mrn)
	return scanPatient(row)
}

func (r *PgRepository) Search(ctx context.Context, query string, limit, offset int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, mrn, name, phone, email, gender, birth_date, created_at, updated_at
		FROM patients
		WHERE name ILIKE '%' || $1 || '%'
		   OR phone = $1
		   OR mrn = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
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
