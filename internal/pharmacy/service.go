package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNameRequired     = errors.New("medicine name is required")
	ErrBatchRequired    = errors.New("batch number is required")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidPricing   = errors.New("prices must not be negative")
	ErrExpiryInPast     = errors.New("expiry date must be in the future")
	ErrInvalidDispenseQ = errors.New("dispense quantity must be at least 1")
	ErrStockExpired     = errors.New("cannot dispense expired stock")
)

// StockView pairs a batch with its derived classification for API responses
// and worker scans.
type StockView struct {
	Stock
	Classification
}

type Service struct {
	repo       Repository
	thresholds Thresholds
	logger     *zap.Logger
}

func NewService(repo Repository, thresholds Thresholds, logger *zap.Logger) *Service {
	return &Service{repo: repo, thresholds: thresholds, logger: logger}
}

func (s *Service) AddMedicine(ctx context.Context, m *Medicine) (*Medicine, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.CreateMedicine(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("add medicine: %w", err)
	}
	return created, nil
}

func (s *Service) SearchMedicines(ctx context.Context, query string, limit, offset int) ([]Medicine, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.SearchMedicines(ctx, strings.TrimSpace(query), limit, offset)
}

// ReceiveStock registers a new batch. Available quantity starts equal to the
// received quantity.
func (s *Service) ReceiveStock(ctx context.Context, st *Stock) (*StockView, error) {
	st.BatchNumber = strings.TrimSpace(st.BatchNumber)
	if st.BatchNumber == "" {
		return nil, ErrBatchRequired
	}
	if st.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if st.PurchasePrice < 0 || st.MRP < 0 {
		return nil, ErrInvalidPricing
	}
	if !st.ExpiryDate.After(time.Now()) {
		return nil, ErrExpiryInPast
	}

	created, err := s.repo.CreateStock(ctx, st)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock batch received",
		zap.String("stock_id", created.ID.String()),
		zap.String("batch_number", created.BatchNumber),
		zap.Int("quantity", created.Quantity))

	return s.view(*created, time.Now()), nil
}

// Dispense hands out units from a batch. Expired batches cannot be dispensed.
func (s *Service) Dispense(ctx context.Context, stockID uuid.UUID, quantity int) (*StockView, error) {
	if quantity < 1 {
		return nil, ErrInvalidDispenseQ
	}

	st, err := s.repo.GetStockByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if c := Classify(*st, now, s.thresholds); c.Status == StatusExpired {
		return nil, fmt.Errorf("batch %s: %w", st.BatchNumber, ErrStockExpired)
	}

	updated, err := s.repo.Dispense(ctx, stockID, quantity)
	if err != nil {
		return nil, err
	}

	return s.view(*updated, now), nil
}

func (s *Service) GetStock(ctx context.Context, id uuid.UUID) (*StockView, error) {
	st, err := s.repo.GetStockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*st, time.Now()), nil
}

// ListStock returns classified batches, optionally filtered to a single
// derived status. The filter runs after classification because status is
// never stored.
func (s *Service) ListStock(ctx context.Context, medicineID *uuid.UUID, statusFilter StockStatus) ([]StockView, error) {
	var (
		batches []Stock
		err     error
	)
	if medicineID != nil {
		batches, err = s.repo.ListStockByMedicine(ctx, *medicineID)
	} else {
		batches, err = s.repo.ListActiveStock(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}

	now := time.Now()
	views := make([]StockView, 0, len(batches))
	for _, b := range batches {
		v := s.view(b, now)
		if statusFilter != "" && v.Status != statusFilter {
			continue
		}
		views = append(views, *v)
	}

	return views, nil
}

// ScanAlerts classifies every active batch and returns the ones alerting;
// used by the stock worker.
func (s *Service) ScanAlerts(ctx context.Context) ([]StockView, error) {
	batches, err := s.repo.ListActiveStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan stock: %w", err)
	}

	now := time.Now()
	var alerting []StockView
	for _, b := range batches {
		v := s.view(b, now)
		if len(v.Alerts) > 0 {
			alerting = append(alerting, *v)
		}
	}

	return alerting, nil
}

func (s *Service) DeactivateStock(ctx context.Context, id uuid.UUID) (*StockView, error) {
	updated, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock batch deactivated",
		zap.String("stock_id", updated.ID.String()),
		zap.String("batch_number", updated.BatchNumber))

	return s.view(*updated, time.Now()), nil
}

func (s *Service) view(st Stock, now time.Time) *StockView {
	return &StockView{
		Stock:          st,
		Classification: Classify(st, now, s.thresholds),
	}
}
