package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
)

func addMedicineHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		m := &pharmacy.Medicine{
			Name:         req.Name,
			GenericName:  req.GenericName,
			Manufacturer: req.Manufacturer,
			Active:       true,
		}

		created, err := svc.AddMedicine(r.Context(), m)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicineResponse(created))
	}
}

func searchMedicinesHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		medicines, err := svc.SearchMedicines(r.Context(), query, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]MedicineResponse, 0, len(medicines))
		for i := range medicines {
			resp = append(resp, toMedicineResponse(&medicines[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func receiveStockHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReceiveStockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		medicineID, err := uuid.Parse(req.MedicineID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_medicine_id", "medicine_id must be a valid UUID")
			return
		}
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_expiry_date", "expiry_date must be YYYY-MM-DD")
			return
		}

		st := &pharmacy.Stock{
			MedicineID:    medicineID,
			BatchNumber:   req.BatchNumber,
			Quantity:      req.Quantity,
			PurchasePrice: req.PurchasePrice,
			MRP:           req.MRP,
			ExpiryDate:    expiry,
			Location:      req.Location,
		}
		if req.ManufacturingDate != nil {
			mfg, err := time.Parse("2006-01-02", *req.ManufacturingDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_manufacturing_date", "manufacturing_date must be YYYY-MM-DD")
				return
			}
			st.ManufacturingDate = &mfg
		}

		view, err := svc.ReceiveStock(r.Context(), st)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toStockResponse(view))
	}
}

func getStockHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}

		view, err := svc.GetStock(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStockResponse(view))
	}
}

func listStockHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var medicineID *uuid.UUID
		if raw := r.URL.Query().Get("medicine_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_medicine_id", "medicine_id must be a valid UUID")
				return
			}
			medicineID = &id
		}

		statusFilter := pharmacy.StockStatus(r.URL.Query().Get("status"))

		views, err := svc.ListStock(r.Context(), medicineID, statusFilter)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]StockResponse, 0, len(views))
		for i := range views {
			resp = append(resp, toStockResponse(&views[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func dispenseStockHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}

		var req DispenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		view, err := svc.Dispense(r.Context(), id, req.Quantity)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStockResponse(view))
	}
}

func deactivateStockHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_stock_id", "id must be a valid UUID")
			return
		}

		view, err := svc.DeactivateStock(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toStockResponse(view))
	}
}

func stockAlertsHandler(svc *pharmacy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.ScanAlerts(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]StockResponse, 0, len(views))
		for i := range views {
			resp = append(resp, toStockResponse(&views[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
