package billing

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

const billColumns = `id, prescription_id, patient_id, consultation_fee, subtotal,
	cgst_total, sgst_total, discount, final_amount, created_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill

	err := row.Scan(
		&b.ID,
		&b.PrescriptionID,
		&b.PatientID,
		&b.ConsultationFee,
		&b.Subtotal,
		&b.CGSTTotal,
		&b.SGSTTotal,
		&b.Discount,
		&b.FinalAmount,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *PgRepository) CreateBill(ctx context.Context, bill *Bill, items []BillItem) (*Bill, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin bill tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()

	row := tx.QueryRow(ctx, `
		INSERT INTO bills (id, prescription_id, patient_id, consultation_fee, subtotal,
			cgst_total, sgst_total, discount, final_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING `+billColumns+`
	`, id, bill.PrescriptionID, bill.PatientID, bill.ConsultationFee, bill.Subtotal,
		bill.CGSTTotal, bill.SGSTTotal, bill.Discount, bill.FinalAmount)

	created, err := scanBill(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrBillExists
		}
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO bill_items (id, bill_id, item_type, name, quantity,
				unit_price, gst_rate, line_total, cgst, sgst)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.New(), created.ID, item.Type, item.Name, item.Quantity,
			item.UnitPrice, item.GSTRate, item.LineTotal, item.CGST, item.SGST)
		if err != nil {
			return nil, fmt.Errorf("insert bill item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bill tx: %w", err)
	}

	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Bill, []BillItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE id = $1
	`, id)

	bill, err := scanBill(row)
	if err != nil {
		return nil, nil, err
	}

	items, err := r.itemsForBill(ctx, bill.ID)
	if err != nil {
		return nil, nil, err
	}

	return bill, items, nil
}

func (r *PgRepository) GetByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*Bill, []BillItem, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE prescription_id = $1
	`, prescriptionID)

	bill, err := scanBill(row)
	if err != nil {
		return nil, nil, err
	}

	items, err := r.itemsForBill(ctx, bill.ID)
	if err != nil {
		return nil, nil, err
	}

	return bill, items, nil
}

func (r *PgRepository) itemsForBill(ctx context.Context, billID uuid.UUID) ([]BillItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, bill_id, item_type, name, quantity, unit_price, gst_rate,
		       line_total, cgst, sgst
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY name
	`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BillItem
	for rows.Next() {
		var it BillItem
		err := rows.Scan(
			&it.ID,
			&it.BillID,
			&it.Type,
			&it.Name,
			&it.Quantity,
			&it.UnitPrice,
			&it.GSTRate,
			&it.LineTotal,
			&it.CGST,
			&it.SGST,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Bill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
