package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sandy-Maxx/hospital-sub001/internal/appointment"
	"github.com/Sandy-Maxx/hospital-sub001/internal/billing"
	"github.com/Sandy-Maxx/hospital-sub001/internal/patient"
	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
	redisclient "github.com/Sandy-Maxx/hospital-sub001/internal/redis"
	"github.com/Sandy-Maxx/hospital-sub001/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeDomainError maps service errors onto HTTP statuses. Unknown errors
// become 500s without leaking internals.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	// not found
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, appointment.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, prescription.ErrPrescriptionNotFound):
		writeError(w, http.StatusNotFound, "prescription_not_found", err.Error())
	case errors.Is(err, billing.ErrBillNotFound):
		writeError(w, http.StatusNotFound, "bill_not_found", err.Error())
	case errors.Is(err, pharmacy.ErrMedicineNotFound):
		writeError(w, http.StatusNotFound, "medicine_not_found", err.Error())
	case errors.Is(err, pharmacy.ErrStockNotFound):
		writeError(w, http.StatusNotFound, "stock_not_found", err.Error())

	// conflicts
	case errors.Is(err, appointment.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, "session_full", err.Error())
	case errors.Is(err, appointment.ErrSessionInactive):
		writeError(w, http.StatusConflict, "session_inactive", err.Error())
	case errors.Is(err, appointment.ErrDuplicateToken):
		writeError(w, http.StatusConflict, "duplicate_token", err.Error())
	case errors.Is(err, appointment.ErrSessionBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "session_busy", "session is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrNotCancellable):
		writeError(w, http.StatusConflict, "not_cancellable", err.Error())
	case errors.Is(err, patient.ErrDuplicateMRN):
		writeError(w, http.StatusConflict, "duplicate_mrn", err.Error())
	case errors.Is(err, prescription.ErrPrescriptionCompleted):
		writeError(w, http.StatusConflict, "prescription_completed", err.Error())
	case errors.Is(err, billing.ErrBillExists):
		writeError(w, http.StatusConflict, "bill_exists", err.Error())
	case errors.Is(err, pharmacy.ErrDuplicateBatch):
		writeError(w, http.StatusConflict, "duplicate_batch", err.Error())
	case errors.Is(err, pharmacy.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, pharmacy.ErrStockExpired):
		writeError(w, http.StatusConflict, "stock_expired", err.Error())

	// validation
	case errors.Is(err, appointment.ErrInvalidPriority),
		errors.Is(err, session.ErrNameRequired),
		errors.Is(err, session.ErrPrefixRequired),
		errors.Is(err, session.ErrInvalidCapacity),
		errors.Is(err, session.ErrInvalidWindow),
		errors.Is(err, patient.ErrNameRequired),
		errors.Is(err, patient.ErrMRNRequired),
		errors.Is(err, prescription.ErrPatientRequired),
		errors.Is(err, prescription.ErrDoctorRequired),
		errors.Is(err, billing.ErrNegativeFee),
		errors.Is(err, billing.ErrNegativeDiscount),
		errors.Is(err, billing.ErrNegativePrice),
		errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrInvalidGSTRate),
		errors.Is(err, billing.ErrDiscountTooLarge),
		errors.Is(err, pharmacy.ErrNameRequired),
		errors.Is(err, pharmacy.ErrBatchRequired),
		errors.Is(err, pharmacy.ErrInvalidQuantity),
		errors.Is(err, pharmacy.ErrInvalidPricing),
		errors.Is(err, pharmacy.ErrExpiryInPast),
		errors.Is(err, pharmacy.ErrInvalidDispenseQ):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
