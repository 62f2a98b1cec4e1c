package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"workforce/internal/auth"
	"workforce/internal/domain/payroll"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/runs", h.handleListRuns)
		r.Post("/runs", h.handleCreateRun)
		r.Get("/runs/{runID}", h.handleGetRun)
		r.Post("/runs/{runID}/process", h.handleProcessRun)
		r.Post("/runs/{runID}/complete", h.handleCompleteRun)
		r.Get("/runs/{runID}/register.pdf", h.handleRegisterPDF)
	})
}

func (h *Handler) requireHR(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	if user.Role != auth.RoleHR {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, false
	}
	return user, true
}

type createRunPayload struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("periodStart", payload.PeriodStart)
	end, _ := v.Date("periodEnd", payload.PeriodEnd)
	v.DateOrder("periodStart", start, "periodEnd", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	run, err := h.Service.CreateRun(r.Context(), user.TenantID, user.UserID, start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_run_create_failed", "failed to create payroll run", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Service.ListRuns(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_runs_failed", "failed to list payroll runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	run, err := h.Service.GetRun(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		failPayrollError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProcessRun(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	run, err := h.Service.StartProcessing(r.Context(), user.TenantID, user.UserID, chi.URLParam(r, "runID"))
	if err != nil {
		failPayrollError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompleteRun(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	result, err := h.Service.Complete(r.Context(), user.TenantID, user.UserID, chi.URLParam(r, "runID"))
	if err != nil {
		failPayrollError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegisterPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireHR(w, r)
	if !ok {
		return
	}

	run, rows, err := h.Service.Register(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		failPayrollError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=attendance-register.pdf")
	if err := payroll.WriteRegisterPDF(w, run, rows); err != nil {
		log.Warn().Err(err).Str("runId", run.ID).Msg("register pdf write failed")
	}
}

func failPayrollError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", requestID)
	case errors.Is(err, payroll.ErrInvalidRunState):
		api.Fail(w, http.StatusConflict, "invalid_run_state", "payroll run is not in the required state", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "payroll operation failed", requestID)
	}
}
