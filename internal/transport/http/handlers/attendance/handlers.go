package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/auth"
	"workforce/internal/domain/attendance"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/records", h.handleRecordDay)
		r.Post("/summaries/aggregate", h.handleAggregate)
		r.Get("/summaries", h.handleListSummaries)
		r.Get("/summaries/stale", h.handleListStale)
		r.Get("/summaries/{employeeID}", h.handleGetSummary)
	})
}

type dayRecordPayload struct {
	EmployeeID  string `json:"employeeId"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	WorkedHours string `json:"workedHours"`
}

func (h *Handler) handleRecordDay(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or hr required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload dayRecordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id required")
	v.Enum("status", payload.Status, []string{attendance.DayPresent, attendance.DayLate, attendance.DayAbsent}, "must be present, late or absent")
	v.Required("status", payload.Status, "status required")
	date, _ := v.Date("date", payload.Date)
	workedHours := decimal.Zero
	if payload.WorkedHours != "" {
		parsed, err := decimal.NewFromString(payload.WorkedHours)
		if err != nil || parsed.IsNegative() {
			v.Add("workedHours", "must be a non-negative number")
		} else {
			workedHours = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.RecordDay(r.Context(), user.TenantID, attendance.DayRecord{
		EmployeeID:  payload.EmployeeID,
		Date:        date,
		Status:      payload.Status,
		WorkedHours: workedHours,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_record_failed", "failed to record attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

type aggregatePayload struct {
	EmployeeID  string `json:"employeeId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or hr required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload aggregatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id required")
	start, _ := v.Date("periodStart", payload.PeriodStart)
	end, _ := v.Date("periodEnd", payload.PeriodEnd)
	v.DateOrder("periodStart", start, "periodEnd", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summary, err := h.Service.Aggregate(r.Context(), user.TenantID, payload.EmployeeID, attendance.Period{Start: start, End: end})
	if err != nil {
		if errors.Is(err, attendance.ErrSummaryLocked) {
			api.Fail(w, http.StatusConflict, "summary_locked", "attendance summary is locked by a completed payroll run", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_aggregate_failed", "failed to aggregate attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if user.Role == auth.RoleEmployee && employeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("periodStart", r.URL.Query().Get("periodStart"))
	end, _ := v.Date("periodEnd", r.URL.Query().Get("periodEnd"))
	v.DateOrder("periodStart", start, "periodEnd", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summary, err := h.Service.GetSummary(r.Context(), user.TenantID, employeeID, attendance.Period{Start: start, End: end})
	if err != nil {
		if errors.Is(err, attendance.ErrSummaryNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance summary not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_summary_failed", "failed to load summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleEmployee {
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or hr required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("periodStart", r.URL.Query().Get("periodStart"))
	end, _ := v.Date("periodEnd", r.URL.Query().Get("periodEnd"))
	v.DateOrder("periodStart", start, "periodEnd", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summaries, err := h.Service.ListSummaries(r.Context(), user.TenantID, attendance.Period{Start: start, End: end})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_summaries_failed", "failed to list summaries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListStale(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleHR {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	summaries, err := h.Service.ListStale(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_stale_failed", "failed to list stale summaries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summaries, middleware.GetRequestID(r.Context()))
}
