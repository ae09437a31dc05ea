package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bookable, capacity-bounded time block for a doctor on a date.
// CurrentTokens counts tokens ever issued for the session; whether a
// cancellation gives the slot back is a booking policy decision, not a
// property of the session itself.
type Session struct {
	ID            uuid.UUID
	Name          string
	Prefix        string // short code prepended to token numbers, e.g. "M" for morning
	Date          time.Time
	StartTime     time.Time
	EndTime       time.Time
	MaxTokens     int
	CurrentTokens int
	Active        bool
	DoctorID      *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AvailableSlots reports how many more tokens the session can issue. The
// result is clamped at zero: a counter pushed past capacity by a historical
// race must not report negative availability.
func (s *Session) AvailableSlots() int {
	free := s.MaxTokens - s.CurrentTokens
	if free < 0 {
		return 0
	}
	return free
}
