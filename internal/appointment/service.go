package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/Sandy-Maxx/hospital-sub001/internal/redis"
)

const (
	EventTokenIssued          = "TOKEN_ISSUED"
	EventStatusChanged        = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
)

var (
	ErrPatientNotFound         = errors.New("patient not found")
	ErrSessionBusy             = errors.New("session is being booked, please retry")
	ErrInvalidPriority         = errors.New("invalid appointment priority")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotCancellable          = errors.New("appointment can no longer be cancelled")
)

// validTransitions encodes the staff workflow; terminal states have no exits.
var validTransitions = map[Status][]Status{
	StatusScheduled:      {StatusArrived, StatusCancelled, StatusNoShow},
	StatusArrived:        {StatusWaiting, StatusInConsultation, StatusCancelled},
	StatusWaiting:        {StatusInConsultation, StatusCancelled, StatusNoShow},
	StatusInConsultation: {StatusCompleted},
}

func transitionAllowed(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Policy captures booking behavior that is deliberately configurable rather
// than fixed: the original system never returned a cancelled token's slot,
// so restoring capacity is opt-in.
type Policy struct {
	RestoreOnCancel bool
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	policy Policy
	logger *zap.Logger
}

func NewService(repo Repository, locker redisclient.Locker, policy Policy, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		policy: policy,
		logger: logger,
	}
}

// BookToken reserves the next token in a session for a patient. The per
// session Redis lock queues concurrent bookings so most contenders see a
// clean capacity answer; the conditional counter update inside the repository
// is what actually guarantees the session cannot be overbooked.
func (s *Service) BookToken(ctx context.Context, sessionID, patientID uuid.UUID, details BookingDetails) (*Appointment, error) {
	if details.Priority == "" {
		details.Priority = PriorityNormal
	}
	if !details.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	exists, err := s.repo.PatientExists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	var created *Appointment

	err = s.locker.WithSessionLock(ctx, sessionID, func(lockCtx context.Context) error {
		appt, err := s.repo.BookToken(lockCtx, sessionID, patientID, details)
		if err != nil {
			return err
		}
		created = appt

		s.logEvent(lockCtx, appt.ID, EventTokenIssued, map[string]any{
			"session_id":   sessionID.String(),
			"patient_id":   patientID.String(),
			"token_number": appt.TokenNumber,
			"priority":     string(appt.Priority),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSessionBusy
		}
		return nil, err
	}

	s.logger.Info("token issued",
		zap.String("session_id", sessionID.String()),
		zap.String("token_number", created.TokenNumber))

	return created, nil
}

// UpdateStatus moves an appointment along the staff workflow.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !transitionAllowed(appt.Status, to) {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another staff action; the stored status moved on.
			return nil, ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.logEvent(ctx, updated.ID, EventStatusChanged, map[string]any{
		"from": string(appt.Status),
		"to":   string(to),
	})

	return updated, nil
}

// Cancel marks an appointment CANCELLED. The row stays; token numbers are
// never reused. Capacity is only handed back when the policy says so.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !transitionAllowed(appt.Status, StatusCancelled) {
		return nil, ErrNotCancellable
	}

	updated, err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrNotCancellable
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	if s.policy.RestoreOnCancel {
		if err := s.repo.ReleaseSlot(ctx, updated.SessionID); err != nil {
			s.logger.Error("failed to release session slot after cancel",
				zap.String("appointment_id", updated.ID.String()),
				zap.Error(err))
		}
	}

	s.logEvent(ctx, updated.ID, EventAppointmentCancelled, map[string]any{
		"token_number":      updated.TokenNumber,
		"capacity_restored": s.policy.RestoreOnCancel,
	})

	return updated, nil
}

// ListQueue returns a session's appointments in display order: emergencies
// first, then by token number.
func (s *Service) ListQueue(ctx context.Context, sessionID uuid.UUID) ([]QueueEntry, error) {
	entries, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session queue: %w", err)
	}

	SortQueue(entries)
	return entries, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appointments, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return appointments, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload",
			zap.String("event_type", eventType),
			zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to insert event log",
			zap.String("event_type", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err))
	}
}
