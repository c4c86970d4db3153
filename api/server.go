/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     One slog record per request (logging.go)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the HR frontend

ROUTE GROUPS:
  /api/depreciation/*   Stateless depreciation calculators
  /api/assets/*         Stored assets and their ledger
  /api/leave/*          Working days, balances, leave requests
  /api/holidays         Holiday calendar
  /api/payroll/*        Deductions, payslips, gratuity
  /api/loans/*          Loan schedules
  /api/costs/*          Billing-cycle normalization

SECURITY NOTE:
  No authentication middleware. Tenant isolation relies on the caller
  passing the right tenant_id.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultCORSOrigins are used when NewRouter gets no origins.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	if len(corsOrigins) == 0 {
		corsOrigins = DefaultCORSOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(requestLogFormatter{logger: h.Logger}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/depreciation", func(r chi.Router) {
			r.Get("/categories", h.ListCategories)
			r.Post("/calculate", h.CalculateDepreciation)
			r.Post("/schedule", h.GenerateSchedule)
			r.Post("/summary", h.Summarize)
			r.Post("/run", h.RunDepreciation)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Post("/", h.CreateAsset)
			r.Get("/{id}", h.GetAsset)
			r.Get("/{id}/schedule", h.GetAssetSchedule)
			r.Get("/{id}/entries", h.ListAssetEntries)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Post("/working-days", h.CountWorkingDays)
			r.Post("/balance", h.CalculateBalance)
			r.Get("/entitlement", h.GetEntitlement)
			r.Post("/types", h.CreateLeaveType)
			r.Get("/requests", h.ListLeaveRequests)
			r.Post("/requests", h.CreateLeaveRequest)
			r.Get("/requests/{id}", h.GetLeaveRequest)
			r.Post("/requests/{id}/status", h.UpdateLeaveStatus)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/deductions", h.GetDeductions)
			r.Post("/payslips", h.CreatePayslip)
			r.Post("/gratuity", h.CalculateGratuity)
		})

		r.Post("/loans/schedule", h.LoanSchedule)
		r.Post("/costs/normalize", h.NormalizeCost)
	})

	return r
}
