package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNameRequired = errors.New("patient name is required")
	ErrMRNRequired  = errors.New("medical record number is required")
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Register(ctx context.Context, p *Patient) (*Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.MRN = strings.TrimSpace(p.MRN)

	if p.Name == "" {
		return nil, ErrNameRequired
	}
	if p.MRN == "" {
		return nil, ErrMRNRequired
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, ErrDuplicateMRN) {
			return nil, err
		}
		return nil, fmt.Errorf("register patient: %w", err)
	}

	s.logger.Info("patient registered",
		zap.String("patient_id", created.ID.String()),
		zap.String("mrn", created.MRN))

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]Patient, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	patients, err := s.repo.Search(ctx, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}
