package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Repository contains all DB interactions needed by the session service.
type Repository interface {
	Create(ctx context.Context, s *Session) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByDate(ctx context.Context, date time.Time) ([]Session, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Session, error)
}
