package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled      Status = "SCHEDULED"
	StatusArrived        Status = "ARRIVED"
	StatusWaiting        Status = "WAITING"
	StatusInConsultation Status = "IN_CONSULTATION"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
	StatusNoShow         Status = "NO_SHOW"
)

type Priority string

const (
	PriorityEmergency Priority = "EMERGENCY"
	PriorityHigh      Priority = "HIGH"
	PriorityNormal    Priority = "NORMAL"
	PriorityLow       Priority = "LOW"
)

// Rank maps a priority to its queue position class; lower sorts first.
// Unknown values sink below LOW rather than jumping the queue.
func (p Priority) Rank() int {
	switch p {
	case PriorityEmergency:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

type Appointment struct {
	ID          uuid.UUID
	TokenNumber string // session-scoped, e.g. "M7"
	SessionID   uuid.UUID
	PatientID   uuid.UUID
	DoctorID    *uuid.UUID
	Status      Status
	Priority    Priority
	Type        string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingDetails carries the caller-supplied fields of a new booking.
type BookingDetails struct {
	Priority Priority
	Type     string
	Notes    *string
	DoctorID *uuid.UUID
}

// QueueEntry is an appointment hydrated for the staff queue display.
type QueueEntry struct {
	Appointment
	PatientName string
	PatientMRN  string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
