package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionInactive     = errors.New("session is not active")
	ErrCapacityExceeded    = errors.New("session has no free tokens")
	ErrDuplicateToken      = errors.New("token number already issued for this session")
)

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	// BookToken is a single unit of work: it increments the session counter
	// with a conditional update (only while current_tokens < max_tokens) and
	// inserts the appointment row in the same transaction. Either both writes
	// commit or neither does.
	BookToken(ctx context.Context, sessionID, patientID uuid.UUID, details BookingDetails) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]QueueEntry, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)

	// UpdateStatus transitions only when the row still holds the expected
	// status, so concurrent staff actions cannot clobber each other.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)

	// ReleaseSlot decrements a session counter, guarded against going
	// negative. Only called when the restore-on-cancel policy is enabled.
	ReleaseSlot(ctx context.Context, sessionID uuid.UUID) error

	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)

	InsertEvent(ctx context.Context, ev EventLog) error
}
