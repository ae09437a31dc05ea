package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sandy-Maxx/hospital-sub001/internal/appointment"
	"github.com/Sandy-Maxx/hospital-sub001/internal/billing"
	"github.com/Sandy-Maxx/hospital-sub001/internal/observability/metrics"
	"github.com/Sandy-Maxx/hospital-sub001/internal/patient"
	"github.com/Sandy-Maxx/hospital-sub001/internal/pharmacy"
	"github.com/Sandy-Maxx/hospital-sub001/internal/prescription"
	"github.com/Sandy-Maxx/hospital-sub001/internal/session"
)

// Services bundles everything the router needs.
type Services struct {
	Patients      *patient.Service
	Sessions      *session.Service
	Appointments  *appointment.Service
	Prescriptions *prescription.Service
	Billing       *billing.Service
	Pharmacy      *pharmacy.Service
}

// NewRouter wires all routes with middleware. Write endpoints carry role
// checks; reads are open to any staff role the gateway lets through.
func NewRouter(svcs Services, health *HealthHandler, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(RoleMiddleware)
	r.Use(RecoverMiddleware(logger))
	r.Use(LoggingMiddleware(logger, m))

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	anyStaff := RequireRole(RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist)
	frontDesk := RequireRole(RoleAdmin, RoleReceptionist)
	clinical := RequireRole(RoleAdmin, RoleDoctor)
	dispensary := RequireRole(RoleAdmin, RoleNurse, RoleReceptionist)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/patients", func(r chi.Router) {
			r.With(frontDesk).Post("/", registerPatientHandler(svcs.Patients))
			r.With(anyStaff).Get("/", searchPatientsHandler(svcs.Patients))
			r.With(anyStaff).Get("/{id}", getPatientHandler(svcs.Patients))
			r.With(anyStaff).Get("/{id}/appointments", patientAppointmentsHandler(svcs.Appointments))
			r.With(anyStaff).Get("/{id}/prescriptions", patientPrescriptionsHandler(svcs.Prescriptions))
			r.With(anyStaff).Get("/{id}/bills", patientBillsHandler(svcs.Billing))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.With(RequireRole(RoleAdmin)).Post("/", createSessionHandler(svcs.Sessions))
			r.With(anyStaff).Get("/", listSessionsHandler(svcs.Sessions))
			r.With(anyStaff).Get("/{id}", getSessionHandler(svcs.Sessions))
			r.With(anyStaff).Get("/{id}/queue", sessionQueueHandler(svcs.Appointments))
			r.With(RequireRole(RoleAdmin)).Post("/{id}/activate", setSessionActiveHandler(svcs.Sessions, true))
			r.With(RequireRole(RoleAdmin)).Post("/{id}/deactivate", setSessionActiveHandler(svcs.Sessions, false))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(frontDesk).Post("/", createBookingHandler(svcs.Appointments, m))
			r.With(anyStaff).Get("/{id}", getAppointmentHandler(svcs.Appointments))
			r.With(anyStaff).Patch("/{id}/status", updateAppointmentStatusHandler(svcs.Appointments))
			r.With(frontDesk).Post("/{id}/cancel", cancelAppointmentHandler(svcs.Appointments))
		})

		r.Route("/prescriptions", func(r chi.Router) {
			r.With(clinical).Post("/", createPrescriptionHandler(svcs.Prescriptions))
			r.With(anyStaff).Get("/{id}", getPrescriptionHandler(svcs.Prescriptions))
			r.With(clinical).Patch("/{id}", updatePrescriptionHandler(svcs.Prescriptions))
			r.With(clinical).Post("/{id}/complete", completePrescriptionHandler(svcs.Prescriptions))
			r.With(frontDesk).Post("/{id}/bill", createBillHandler(svcs.Billing, m))
			r.With(frontDesk).Post("/{id}/bill/preview", previewBillHandler(svcs.Billing))
			r.With(anyStaff).Get("/{id}/bill", getBillByPrescriptionHandler(svcs.Billing))
		})

		r.Route("/bills", func(r chi.Router) {
			r.With(anyStaff).Get("/{id}", getBillHandler(svcs.Billing))
		})

		r.Route("/pharmacy", func(r chi.Router) {
			r.Route("/medicines", func(r chi.Router) {
				r.With(dispensary).Post("/", addMedicineHandler(svcs.Pharmacy))
				r.With(anyStaff).Get("/", searchMedicinesHandler(svcs.Pharmacy))
			})
			r.Route("/stock", func(r chi.Router) {
				r.With(dispensary).Post("/", receiveStockHandler(svcs.Pharmacy))
				r.With(anyStaff).Get("/", listStockHandler(svcs.Pharmacy))
				r.With(anyStaff).Get("/alerts", stockAlertsHandler(svcs.Pharmacy))
				r.With(anyStaff).Get("/{id}", getStockHandler(svcs.Pharmacy))
				r.With(dispensary).Post("/{id}/dispense", dispenseStockHandler(svcs.Pharmacy))
				r.With(RequireRole(RoleAdmin)).Post("/{id}/deactivate", deactivateStockHandler(svcs.Pharmacy))
			})
		})
	})

	return r
}
