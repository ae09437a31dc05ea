package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Sandy-Maxx/hospital-sub001/internal/appointment"
	"github.com/Sandy-Maxx/hospital-sub001/internal/billing"
	"github.com/Sandy-Maxx/hospital-sub001/internal/patient"
	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
	"github.com/Sandy-Maxx/hospital-sub001/internal/session"
)

// -- Patients --

type RegisterPatientRequest struct {
	MRN       string  `json:"mrn"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"` // YYYY-MM-DD
}

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	MRN       string    `json:"mrn"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	resp := PatientResponse{
		ID:        p.ID,
		MRN:       p.MRN,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Gender:    p.Gender,
		CreatedAt: p.CreatedAt,
	}
	if p.BirthDate != nil {
		bd := p.BirthDate.Format("2006-01-02")
		resp.BirthDate = &bd
	}
	return resp
}

// -- Sessions --

type CreateSessionRequest struct {
	Name      string  `json:"name"`
	Prefix    string  `json:"prefix"`
	Date      string  `json:"date"` // YYYY-MM-DD
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	MaxTokens int     `json:"max_tokens"`
	DoctorID  *string `json:"doctor_id,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

type SessionResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Prefix         string     `json:"prefix"`
	Date           string     `json:"date"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        time.Time  `json:"end_time"`
	MaxTokens      int        `json:"max_tokens"`
	CurrentTokens  int        `json:"current_tokens"`
	AvailableSlots int        `json:"available_slots"`
	Active         bool       `json:"active"`
	DoctorID       *uuid.UUID `json:"doctor_id,omitempty"`
}

func toSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		Name:           s.Name,
		Prefix:         s.Prefix,
		Date:           s.Date.Format("2006-01-02"),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		MaxTokens:      s.MaxTokens,
		CurrentTokens:  s.CurrentTokens,
		AvailableSlots: s.AvailableSlots(),
		Active:         s.Active,
		DoctorID:       s.DoctorID,
	}
}

// -- Appointments --

type CreateBookingRequest struct {
	SessionID string  `json:"session_id"`
	PatientID string  `json:"patient_id"`
	Priority  string  `json:"priority,omitempty"`
	Type      string  `json:"type,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	DoctorID  *string `json:"doctor_id,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	TokenNumber string     `json:"token_number"`
	SessionID   uuid.UUID  `json:"session_id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		TokenNumber: a.TokenNumber,
		SessionID:   a.SessionID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		Status:      string(a.Status),
		Priority:    string(a.Priority),
		Type:        a.Type,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

type QueueEntryResponse struct {
	AppointmentResponse
	PatientName string `json:"patient_name"`
	PatientMRN  string `json:"patient_mrn"`
}

// -- Prescriptions --

type CreatePrescriptionRequest struct {
	PatientID     string          `json:"patient_id"`
	DoctorID      string          `json:"doctor_id"`
	AppointmentID *string         `json:"appointment_id,omitempty"`
	Symptoms      *string         `json:"symptoms,omitempty"`
	Diagnosis     *string         `json:"diagnosis,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Medicines     json.RawMessage `json:"medicines,omitempty"`
	LabTests      json.RawMessage `json:"lab_tests,omitempty"`
	Therapies     json.RawMessage `json:"therapies,omitempty"`
}

type UpdatePrescriptionRequest struct {
	Symptoms  *string         `json:"symptoms,omitempty"`
	Diagnosis *string         `json:"diagnosis,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	Medicines json.RawMessage `json:"medicines,omitempty"`
	LabTests  json.RawMessage `json:"lab_tests,omitempty"`
	Therapies json.RawMessage `json:"therapies,omitempty"`
}

type PrescriptionResponse struct {
	ID            uuid.UUID       `json:"id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	AppointmentID *uuid.UUID      `json:"appointment_id,omitempty"`
	Symptoms      *string         `json:"symptoms,omitempty"`
	Diagnosis     *string         `json:"diagnosis,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Medicines     json.RawMessage `json:"medicines,omitempty"`
	LabTests      json.RawMessage `json:"lab_tests,omitempty"`
	Therapies     json.RawMessage `json:"therapies,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toPrescriptionResponse(p *prescription.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:            p.ID,
		PatientID:     p.PatientID,
		DoctorID:      p.DoctorID,
		AppointmentID: p.AppointmentID,
		Symptoms:      p.Symptoms,
		Diagnosis:     p.Diagnosis,
		Notes:         p.Notes,
		Medicines:     p.Medicines,
		LabTests:      p.LabTests,
		Therapies:     p.Therapies,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// -- Billing --

type PricingEntry struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity,omitempty"`
	UnitPrice float64  `json:"unit_price"`
	GSTRate   *float64 `json:"gst_rate,omitempty"`
}

type CreateBillRequest struct {
	ConsultationFee float64        `json:"consultation_fee"`
	Discount        float64        `json:"discount,omitempty"`
	Pricing         []PricingEntry `json:"pricing,omitempty"`
}

type BillItemResponse struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	GSTRate   float64 `json:"gst_rate"`
	LineTotal float64 `json:"line_total"`
	CGST      float64 `json:"cgst"`
	SGST      float64 `json:"sgst"`
}

type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	PrescriptionID  uuid.UUID          `json:"prescription_id"`
	PatientID       uuid.UUID          `json:"patient_id"`
	ConsultationFee float64            `json:"consultation_fee"`
	Subtotal        float64            `json:"subtotal"`
	CGSTTotal       float64            `json:"cgst_total"`
	SGSTTotal       float64            `json:"sgst_total"`
	Discount        float64            `json:"discount"`
	FinalAmount     float64            `json:"final_amount"`
	Items           []BillItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
}

func toBillResponse(b *billing.Bill, items []billing.BillItem) BillResponse {
	resp := BillResponse{
		ID:              b.ID,
		PrescriptionID:  b.PrescriptionID,
		PatientID:       b.PatientID,
		ConsultationFee: b.ConsultationFee,
		Subtotal:        b.Subtotal,
		CGSTTotal:       b.CGSTTotal,
		SGSTTotal:       b.SGSTTotal,
		Discount:        b.Discount,
		FinalAmount:     b.FinalAmount,
		Items:           make([]BillItemResponse, 0, len(items)),
		CreatedAt:       b.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, BillItemResponse{
			Type:      string(it.Type),
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			GSTRate:   it.GSTRate,
			LineTotal: it.LineTotal,
			CGST:      it.CGST,
			SGST:      it.SGST,
		})
	}
	return resp
}

type BillPreviewResponse struct {
	Subtotal    float64            `json:"subtotal"`
	CGSTTotal   float64            `json:"cgst_total"`
	SGSTTotal   float64            `json:"sgst_total"`
	Discount    float64            `json:"discount"`
	FinalAmount float64            `json:"final_amount"`
	Lines       []BillItemResponse `json:"lines"`
	Unpriced    []string           `json:"unpriced,omitempty"`
}

func toBillPreviewResponse(c *billing.Computation) BillPreviewResponse {
	resp := BillPreviewResponse{
		Subtotal:    c.Subtotal,
		CGSTTotal:   c.CGSTTotal,
		SGSTTotal:   c.SGSTTotal,
		Discount:    c.Discount,
		FinalAmount: c.FinalAmount,
		Lines:       make([]BillItemResponse, 0, len(c.Lines)),
	}
	for _, line := range c.Lines {
		resp.Lines = append(resp.Lines, BillItemResponse{
			Type:      string(line.Type),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			GSTRate:   line.GSTRate,
			LineTotal: line.LineTotal,
			CGST:      line.CGST,
			SGST:      line.SGST,
		})
	}
	for _, up := range c.Unpriced {
		resp.Unpriced = append(resp.Unpriced, up.Name)
	}
	return resp
}

// -- Pharmacy --

type AddMedicineRequest struct {
	Name         string  `json:"name"`
	GenericName  *string `json:"generic_name,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

type MedicineResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	GenericName  *string   `json:"generic_name,omitempty"`
	Manufacturer *string   `json:"manufacturer,omitempty"`
	Active       bool      `json:"active"`
}

func toMedicineResponse(m *pharmacy.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:           m.ID,
		Name:         m.Name,
		GenericName:  m.GenericName,
		Manufacturer: m.Manufacturer,
		Active:       m.Active,
	}
}

type ReceiveStockRequest struct {
	MedicineID        string  `json:"medicine_id"`
	BatchNumber       string  `json:"batch_number"`
	Quantity          int     `json:"quantity"`
	PurchasePrice     float64 `json:"purchase_price"`
	MRP               float64 `json:"mrp"`
	ManufacturingDate *string `json:"manufacturing_date,omitempty"` // YYYY-MM-DD
	ExpiryDate        string  `json:"expiry_date"`                  // YYYY-MM-DD
	Location          *string `json:"location,omitempty"`
}

type DispenseRequest struct {
	Quantity int `json:"quantity"`
}

type StockResponse struct {
	ID                uuid.UUID `json:"id"`
	MedicineID        uuid.UUID `json:"medicine_id"`
	BatchNumber       string    `json:"batch_number"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	PurchasePrice     float64   `json:"purchase_price"`
	MRP               float64   `json:"mrp"`
	ExpiryDate        string    `json:"expiry_date"`
	Location          *string   `json:"location,omitempty"`
	Active            bool      `json:"active"`
	Status            string    `json:"status"`
	Alerts            []string  `json:"alerts,omitempty"`
	DaysUntilExpiry   int       `json:"days_until_expiry"`
}

func toStockResponse(v *pharmacy.StockView) StockResponse {
	resp := StockResponse{
		ID:                v.ID,
		MedicineID:        v.MedicineID,
		BatchNumber:       v.BatchNumber,
		Quantity:          v.Quantity,
		AvailableQuantity: v.AvailableQuantity,
		PurchasePrice:     v.PurchasePrice,
		MRP:               v.MRP,
		ExpiryDate:        v.ExpiryDate.Format("2006-01-02"),
		Location:          v.Location,
		Active:            v.Active,
		Status:            string(v.Status),
		DaysUntilExpiry:   v.DaysUntilExpiry,
	}
	for _, a := range v.Alerts {
		resp.Alerts = append(resp.Alerts, string(a))
	}
	return resp
}
