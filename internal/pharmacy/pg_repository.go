package pharmacy

import (
	"context"
	"errors"
	"fmt"

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

const medicineColumns = `id, name, generic_name, manufacturer, active, created_at, updated_at`

const stockColumns = `id, medicine_id, batch_number, quantity, available_quantity,
	purchase_price, mrp, manufacturing_date, expiry_date, location, active,
	created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.GenericName,
		&m.Manufacturer,
		&m.Active,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}

	return &m, nil
}

func scanStock(row pgx.Row) (*Stock, error) {
	var s Stock

	err := row.Scan(
		&s.ID,
		&s.MedicineID,
		&s.BatchNumber,
		&s.Quantity,
		&s.AvailableQuantity,
		&s.PurchasePrice,
		&s.MRP,
		&s.ManufacturingDate,
		&s.ExpiryDate,
		&s.Location,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) CreateMedicine(ctx context.Context, m *Medicine) (*Medicine, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO medicines (id, name, generic_name, manufacturer, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, now(), now())
		RETURNING `+medicineColumns+`
	`, id, m.Name, m.GenericName, m.Manufacturer)

	return scanMedicine(row)
}

func (r *PgRepository) GetMedicineByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE id = $1
	`, id)
	return scanMedicine(row)
}

func (r *PgRepository) SearchMedicines(ctx context.Context, query string, limit, offset int) ([]Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE active
		  AND (name ILIKE '%' || $1 || '%' OR generic_name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateStock(ctx context.Context, s *Stock) (*Stock, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO medicine_stock (id, medicine_id, batch_number, quantity, available_quantity,
			purchase_price, mrp, manufacturing_date, expiry_date, location, active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, $9, true, now(), now())
		RETURNING `+stockColumns+`
	`, id, s.MedicineID, s.BatchNumber, s.Quantity,
		s.PurchasePrice, s.MRP, s.ManufacturingDate, s.ExpiryDate, s.Location)

	created, err := scanStock(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Partial unique index on (medicine_id, batch_number) WHERE active.
			if pgErr.Code == "23505" {
				return nil, ErrDuplicateBatch
			}
			if pgErr.Code == "23503" {
				return nil, ErrMedicineNotFound
			}
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetStockByID(ctx context.Context, id uuid.UUID) (*Stock, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+stockColumns+`
		FROM medicine_stock
		WHERE id = $1
	`, id)
	return scanStock(row)
}

func (r *PgRepository) ListStockByMedicine(ctx context.Context, medicineID uuid.UUID) ([]Stock, error) {
	return r.listStock(ctx, `
		SELECT `+stockColumns+`
		FROM medicine_stock
		WHERE medicine_id = $1 AND active
		ORDER BY expiry_date
	`, medicineID)
}

func (r *PgRepository) ListActiveStock(ctx context.Context) ([]Stock, error) {
	return r.listStock(ctx, `
		SELECT `+stockColumns+`
		FROM medicine_stock
		WHERE active
		ORDER BY expiry_date
	`)
}

func (r *PgRepository) listStock(ctx context.Context, query string, args ...any) ([]Stock, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Stock
	for rows.Next() {
		s, err := scanStock(rows)
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

// Dispense decrements available_quantity only while enough remains, the same
// conditional-update shape the booking counter uses.
func (r *PgRepository) Dispense(ctx context.Context, stockID uuid.UUID, quantity int) (*Stock, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medicine_stock
		SET available_quantity = available_quantity - $2,
		    updated_at = now()
		WHERE id = $1
		  AND active
		  AND available_quantity >= $2
		RETURNING `+stockColumns+`
	`, stockID, quantity)

	updated, err := scanStock(row)
	if err != nil {
		if errors.Is(err, ErrStockNotFound) {
			return nil, r.classifyDispenseRefusal(ctx, stockID)
		}
		return nil, err
	}
	return updated, nil
}

func (r *PgRepository) classifyDispenseRefusal(ctx context.Context, stockID uuid.UUID) error {
	var active bool
	err := r.pool.QueryRow(ctx, `
		SELECT active FROM medicine_stock WHERE id = $1
	`, stockID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStockNotFound
		}
		return fmt.Errorf("inspect stock batch: %w", err)
	}
	if !active {
		return ErrStockNotFound
	}
	return ErrInsufficientStock
}

func (r *PgRepository) Deactivate(ctx context.Context, stockID uuid.UUID) (*Stock, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medicine_stock
		SET active = false,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+stockColumns+`
	`, stockID)
	return scanStock(row)
}
