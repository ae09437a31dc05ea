package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrBillNotFound = errors.New("bill not found")
	ErrBillExists   = errors.New("prescription already has a bill")
)

// Repository contains all DB interactions needed by the billing service.
type Repository interface {
	// CreateBill persists the bill and its items as one transaction.
	CreateBill(ctx context.Context, bill *Bill, items []BillItem) (*Bill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, []BillItem, error)
	GetByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*Bill, []BillItem, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Bill, error)
}
