package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID        uuid.UUID
	MRN       string // medical record number, human-facing
	Name      string
	Phone     *string
	Email     *string
	Gender    *string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
