package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateMRN    = errors.New("medical record number already registered")
)

// Repository contains all DB interactions needed by the patient service.
type Repository interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Search(ctx context.Context, query string, limit, offset int) ([]Patient, error)
}
