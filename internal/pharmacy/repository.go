package pharmacy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrStockNotFound     = errors.New("stock batch not found")
	ErrDuplicateBatch    = errors.New("batch number already active for this medicine")
	ErrInsufficientStock = errors.New("not enough stock available")
)

// Repository contains all DB interactions needed by the pharmacy service.
type Repository interface {
	CreateMedicine(ctx context.Context, m *Medicine) (*Medicine, error)
	GetMedicineByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	SearchMedicines(ctx context.Context, query string, limit, offset int) ([]Medicine, error)

	CreateStock(ctx context.Context, s *Stock) (*Stock, error)
	GetStockByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	ListStockByMedicine(ctx context.Context, medicineID uuid.UUID) ([]Stock, error)
	ListActiveStock(ctx context.Context) ([]Stock, error)

	// Dispense decrements a batch's available quantity, guarded so it can
	// never go below zero.
	Dispense(ctx context.Context, stockID uuid.UUID, quantity int) (*Stock, error)
	Deactivate(ctx context.Context, stockID uuid.UUID) (*Stock, error)
}
