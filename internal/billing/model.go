package billing

import (
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemConsultation ItemType = "CONSULTATION"
	ItemMedicine     ItemType = "MEDICINE"
	ItemLabTest      ItemType = "LAB_TEST"
	ItemTherapy      ItemType = "THERAPY"
	ItemProcedure    ItemType = "PROCEDURE"
	ItemOther        ItemType = "OTHER"
)

// LineItem is a billable line as it enters the computation. A nil UnitPrice
// means "pending pricing, do not bill yet": the line is carried for display
// but contributes nothing to totals and is never persisted. A nil GSTRate
// means the line is untaxed.
type LineItem struct {
	Type      ItemType
	Name      string
	Quantity  int
	UnitPrice *float64
	GSTRate   *float64 // percent, 0..100
}

// Priced reports whether the line participates in totals.
func (li LineItem) Priced() bool {
	return li.UnitPrice != nil
}

// ComputedLine is a priced line with its tax split resolved.
type ComputedLine struct {
	Type      ItemType
	Name      string
	Quantity  int
	UnitPrice float64
	GSTRate   float64
	LineTotal float64
	CGST      float64
	SGST      float64
}

// Computation is the result of the bill rule: same inputs, same outputs,
// nothing persisted.
type Computation struct {
	ConsultationFee float64
	Subtotal        float64
	CGSTTotal       float64
	SGSTTotal       float64
	Discount        float64
	FinalAmount     float64
	Lines           []ComputedLine
	// Unpriced lists the lines excluded from totals so callers can show
	// what still needs pricing.
	Unpriced []LineItem
}

// Bill is the persisted aggregate, immutable once created.
type Bill struct {
	ID              uuid.UUID
	PrescriptionID  uuid.UUID
	PatientID       uuid.UUID
	ConsultationFee float64
	Subtotal        float64
	CGSTTotal       float64
	SGSTTotal       float64
	Discount        float64
	FinalAmount     float64
	CreatedAt       time.Time
}

// BillItem is a persisted line; only lines with resolved prices are stored.
type BillItem struct {
	ID        uuid.UUID
	BillID    uuid.UUID
	Type      ItemType
	Name      string
	Quantity  int
	UnitPrice float64
	GSTRate   float64
	LineTotal float64
	CGST      float64
	SGST      float64
}
