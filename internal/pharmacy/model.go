package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

type Medicine struct {
	ID           uuid.UUID
	Name         string
	GenericName  *string
	Manufacturer *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stock is one received batch of a medicine. Status is never stored; it is
// derived at read time by Classify.
type Stock struct {
	ID                uuid.UUID
	MedicineID        uuid.UUID
	BatchNumber       string
	Quantity          int
	AvailableQuantity int
	PurchasePrice     float64
	MRP               float64
	ManufacturingDate *time.Time
	ExpiryDate        time.Time
	Location          *string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type StockStatus string

const (
	StatusNormal     StockStatus = "NORMAL"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StatusNearExpiry StockStatus = "NEAR_EXPIRY"
	StatusExpired    StockStatus = "EXPIRED"
)

type Alert string

const (
	AlertExpired      Alert = "EXPIRED"
	AlertExpiringSoon Alert = "EXPIRING_SOON"
	AlertOutOfStock   Alert = "OUT_OF_STOCK"
	AlertLowStock     Alert = "LOW_STOCK"
)

// Classification is the derived view of a batch: every alert that applies,
// plus one primary status chosen by precedence.
type Classification struct {
	Status          StockStatus
	Alerts          []Alert
	DaysUntilExpiry int
}
