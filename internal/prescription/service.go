package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPatientRequired = errors.New("patient_id is required")
	ErrDoctorRequired  = errors.New("doctor_id is required")
	// ErrPrescriptionCompleted guards edits after sign-off. The original
	// system only enforced this in the UI; here the service refuses too.
	ErrPrescriptionCompleted = errors.New("prescription is completed and can no longer be edited")
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	if p.PatientID == uuid.Nil {
		return nil, ErrPatientRequired
	}
	if p.DoctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}

	// Reject malformed item payloads up front instead of at billing time.
	if _, err := p.MedicineItems(); err != nil {
		return nil, fmt.Errorf("invalid medicines payload: %w", err)
	}
	if _, err := p.LabTestItems(); err != nil {
		return nil, fmt.Errorf("invalid lab_tests payload: %w", err)
	}
	if _, err := p.TherapyItems(); err != nil {
		return nil, fmt.Errorf("invalid therapies payload: %w", err)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	s.logger.Info("prescription created",
		zap.String("prescription_id", created.ID.String()),
		zap.String("patient_id", created.PatientID.String()))

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCompleted {
		return nil, ErrPrescriptionCompleted
	}

	if _, err := p.MedicineItems(); err != nil {
		return nil, fmt.Errorf("invalid medicines payload: %w", err)
	}
	if _, err := p.LabTestItems(); err != nil {
		return nil, fmt.Errorf("invalid lab_tests payload: %w", err)
	}
	if _, err := p.TherapyItems(); err != nil {
		return nil, fmt.Errorf("invalid therapies payload: %w", err)
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update prescription: %w", err)
	}
	return updated, nil
}

// Complete freezes the prescription. Completion loses to a concurrent
// completion, which is fine: the record ends up COMPLETED either way.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	completed, err := s.repo.SetStatus(ctx, id, StatusDraft, StatusCompleted)
	if err != nil {
		if errors.Is(err, ErrPrescriptionNotFound) {
			existing, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if existing.Status == StatusCompleted {
				return existing, nil
			}
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("complete prescription: %w", err)
	}
	return completed, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Prescription, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	prescriptions, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions by patient: %w", err)
	}
	return prescriptions, nil
}
