package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"workforce/internal/auth"
	"workforce/internal/domain/leave"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/types", h.handleListTypes)
		r.Post("/types", h.handleCreateType)
		r.Get("/balance", h.handleBalance)
		r.Get("/conflicts", h.handleConflicts)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleSubmitRequest)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.Post("/requests/{requestID}/reject", h.handleRejectRequest)
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	types, err := h.Service.Store.ListTypes(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to list leave types", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, types, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleHR {
		api.Fail(w, http.StatusForbidden, "forbidden", "hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name required")
	v.Required("code", payload.Code, "code required")
	if payload.DefaultDays.IsNegative() {
		v.Add("defaultDays", "must not be negative")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Store.CreateType(r.Context(), user.TenantID, payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

type daySpecPayload struct {
	Date    string `json:"date"`
	DayType string `json:"dayType"`
}

type submitRequestPayload struct {
	EmployeeID  string           `json:"employeeId"`
	LeaveTypeID string           `json:"leaveTypeId"`
	Days        []daySpecPayload `json:"days"`
	Reason      string           `json:"reason"`
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := payload.EmployeeID
	if user.Role != auth.RoleHR {
		employeeID = user.EmployeeID
	}

	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "employee id required")
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type required")
	if len(payload.Days) == 0 {
		v.Add("days", "at least one day is required")
	}
	days := make([]leave.DaySpec, 0, len(payload.Days))
	for _, day := range payload.Days {
		parsed, ok := v.Date("days.date", day.Date)
		if !ok {
			continue
		}
		days = append(days, leave.DaySpec{Date: parsed, DayType: day.DayType})
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Submit(r.Context(), user.TenantID, employeeID, payload.LeaveTypeID, days, payload.Reason)
	if err != nil {
		failLeaveError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee {
		employeeID = user.EmployeeID
	}

	page := shared.ParsePagination(r, 100, 500)
	requests, err := h.Service.Store.ListRequests(r.Context(), user.TenantID, employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.GetRequest(r.Context(), user.TenantID, chi.URLParam(r, "requestID"))
	if err != nil {
		failLeaveError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role == auth.RoleEmployee && req.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type rejectPayload struct {
	RejectionReason string `json:"rejectionReason"`
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionApprove)
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.DecisionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleManager && user.Role != auth.RoleHR {
		api.Fail(w, http.StatusForbidden, "forbidden", "manager or hr required", middleware.GetRequestID(r.Context()))
		return
	}

	var rejectionReason string
	if decision == leave.DecisionReject {
		var payload rejectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
		rejectionReason = payload.RejectionReason
	}

	result, err := h.Service.Decide(r.Context(), user.TenantID, chi.URLParam(r, "requestID"), decision, user.UserID, rejectionReason)
	if err != nil {
		failLeaveError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee || employeeID == "" {
		employeeID = user.EmployeeID
	}
	leaveTypeID := r.URL.Query().Get("leaveTypeId")

	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "employee id required")
	v.Required("leaveTypeId", leaveTypeID, "leave type required")
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := v.Date("date", raw)
		if ok {
			asOf = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	balance, err := h.Service.ComputeBalance(r.Context(), user.TenantID, employeeID, leaveTypeID, leave.YearPeriod(asOf))
	if err != nil {
		failLeaveError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleConflicts(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee || employeeID == "" {
		employeeID = user.EmployeeID
	}

	v := shared.NewValidator()
	v.Required("employeeId", employeeID, "employee id required")
	start, _ := v.Date("startDate", r.URL.Query().Get("startDate"))
	end, _ := v.Date("endDate", r.URL.Query().Get("endDate"))
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	conflicts, err := h.Service.FindConflicts(r.Context(), user.TenantID, employeeID, start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "conflicts_failed", "failed to check conflicts", middleware.GetRequestID(r.Context()))
		return
	}
	if conflicts == nil {
		conflicts = []leave.Conflict{}
	}
	api.Success(w, conflicts, middleware.GetRequestID(r.Context()))
}

func failLeaveError(w http.ResponseWriter, err error, requestID string) {
	var validation *leave.ValidationError
	switch {
	case errors.As(err, &validation):
		issues := make([]shared.ValidationIssue, 0, len(validation.Issues))
		for _, issue := range validation.Issues {
			issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, requestID, issues)
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave type not found", requestID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "already_decided", "leave request already decided", requestID)
	case errors.Is(err, leave.ErrOverdrawBlocked):
		api.Fail(w, http.StatusConflict, "insufficient_balance", "insufficient leave balance", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "leave operation failed", requestID)
	}
}
