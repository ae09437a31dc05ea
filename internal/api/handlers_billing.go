package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sandy-Maxx/hospital-sub001/internal/billing"
	"github.com/Sandy-Maxx/hospital-sub001/internal/observability/metrics"
)

func toPriceResolutions(entries []PricingEntry) []billing.PriceResolution {
	pricing := make([]billing.PriceResolution, 0, len(entries))
	for _, e := range entries {
		pricing = append(pricing, billing.PriceResolution{
			Name:      e.Name,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
			GSTRate:   e.GSTRate,
		})
	}
	return pricing
}

func createBillHandler(svc *billing.Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_prescription_id", "id must be a valid UUID")
			return
		}

		var req CreateBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		bill, items, err := svc.CreateBill(r.Context(), prescriptionID, req.ConsultationFee, toPriceResolutions(req.Pricing), req.Discount)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if m != nil {
			m.BillsCreated.Inc()
			m.BillFinalAmount.Observe(bill.FinalAmount)
		}
		writeJSON(w, http.StatusCreated, toBillResponse(bill, items))
	}
}

func previewBillHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_prescription_id", "id must be a valid UUID")
			return
		}

		var req CreateBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		comp, err := svc.Preview(r.Context(), prescriptionID, req.ConsultationFee, toPriceResolutions(req.Pricing), req.Discount)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBillPreviewResponse(comp))
	}
}

func getBillHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_bill_id", "id must be a valid UUID")
			return
		}

		bill, items, err := svc.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBillResponse(bill, items))
	}
}

func getBillByPrescriptionHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prescriptionID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_prescription_id", "id must be a valid UUID")
			return
		}

		bill, items, err := svc.GetByPrescription(r.Context(), prescriptionID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBillResponse(bill, items))
	}
}

func patientBillsHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		bills, err := svc.ListByPatient(r.Context(), patientID, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]BillResponse, 0, len(bills))
		for i := range bills {
			resp = append(resp, toBillResponse(&bills[i], nil))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
