package prescription

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusCompleted Status = "COMPLETED"
)

// Prescription stores its item lists JSON-encoded, the way the original
// records carried them. Decode helpers below give typed access.
type Prescription struct {
	ID            uuid.UUID
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID *uuid.UUID
	Symptoms      *string
	Diagnosis     *string
	Notes         *string
	Medicines     json.RawMessage
	LabTests      json.RawMessage
	Therapies     json.RawMessage
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type MedicineItem struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type LabTestItem struct {
	Name string `json:"name"`
}

type TherapyItem struct {
	Name     string `json:"name"`
	Sessions int    `json:"sessions,omitempty"`
}

func (p *Prescription) MedicineItems() ([]MedicineItem, error) {
	return decodeItems[MedicineItem](p.Medicines)
}

func (p *Prescription) LabTestItems() ([]LabTestItem, error) {
	return decodeItems[LabTestItem](p.LabTests)
}

func (p *Prescription) TherapyItems() ([]TherapyItem, error) {
	return decodeItems[TherapyItem](p.Therapies)
}

func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
