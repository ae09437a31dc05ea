package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
)

// Repository contains all DB interactions needed by the prescription service.
type Repository interface {
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) (*Prescription, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Prescription, error)
}
