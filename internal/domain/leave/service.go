package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/notifications"
	"workforce/internal/domain/org"
	"workforce/internal/domain/policy"
	"workforce/internal/requestctx"
)

type Service struct {
	Store  *Store
	Org    *org.Store
	Audit  *audit.Service
	Notify *notifications.Service
	Policy policy.Bundle
}

func NewService(store *Store, orgStore *org.Store, auditSvc *audit.Service, notify *notifications.Service, bundle policy.Bundle) *Service {
	return &Service{Store: store, Org: orgStore, Audit: auditSvc, Notify: notify, Policy: bundle}
}

type SubmitResult struct {
	Request  LeaveRequest `json:"request"`
	Balance  Balance      `json:"balance"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Submit records a multi-day leave request. The balance is consulted fresh
// before the write; an overdraw warns by default and blocks only when the
// tenant policy says so. Two concurrent submissions may both read the same
// remaining value and jointly overdraw; the read path reports the true
// aggregate afterwards.
func (s *Service) Submit(ctx context.Context, tenantID, employeeID, leaveTypeID string, days []DaySpec, reason string) (SubmitResult, error) {
	if err := ValidateDaySpecs(days, s.Policy); err != nil {
		return SubmitResult{}, err
	}

	leaveType, err := s.Store.LeaveTypeByID(ctx, tenantID, leaveTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubmitResult{}, ErrLeaveTypeNotFound
		}
		return SubmitResult{}, err
	}

	total, err := TotalDays(days)
	if err != nil {
		return SubmitResult{}, validationError("days", err.Error())
	}
	start, end := DateBounds(days)

	balance, err := s.ComputeBalance(ctx, tenantID, employeeID, leaveTypeID, YearPeriod(start))
	if err != nil {
		return SubmitResult{}, err
	}

	var warnings []Warning
	if total.GreaterThan(balance.Remaining) {
		if s.Policy.Overdraw == policy.OverdrawBlock {
			return SubmitResult{}, ErrOverdrawBlocked
		}
		warnings = append(warnings, Warning{
			Code:    WarningOverdraw,
			Message: fmt.Sprintf("requested %s days exceeds remaining balance of %s", total, balance.Remaining),
		})
	}

	conflicts, err := s.FindConflicts(ctx, tenantID, employeeID, start, end)
	if err != nil {
		return SubmitResult{}, err
	}
	if len(conflicts) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarningTeamConflict,
			Message: fmt.Sprintf("%d approved team leave(s) overlap the requested dates", len(conflicts)),
		})
	}

	req := LeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   total,
		Reason:      reason,
		Status:      StatusPending,
	}
	for _, day := range days {
		req.Days = append(req.Days, LeaveRequestDay{Date: NormalizeDate(day.Date), DayType: day.DayType})
	}
	if err := s.Store.InsertRequest(ctx, tenantID, &req); err != nil {
		return SubmitResult{}, err
	}

	s.Audit.Record(ctx, tenantID, employeeID, "leave.request.create", "leave_request", req.ID,
		requestctx.GetRequestID(ctx), nil, req)
	s.Notify.Notify(ctx, tenantID, employeeID, "leave_submitted",
		"Leave request submitted",
		fmt.Sprintf("%s request for %s day(s) from %s to %s is pending approval",
			leaveType.Name, total, start.Format("2006-01-02"), end.Format("2006-01-02")))

	return SubmitResult{Request: req, Balance: balance, Warnings: warnings}, nil
}

// ComputeBalance recomputes the derived balance from request rows. No cache:
// concurrent submissions would invalidate one immediately.
func (s *Service) ComputeBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, period Period) (Balance, error) {
	leaveType, err := s.Store.LeaveTypeByID(ctx, tenantID, leaveTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{}, ErrLeaveTypeNotFound
		}
		return Balance{}, err
	}

	used, err := s.Store.SumDayFractions(ctx, tenantID, employeeID, leaveTypeID, StatusApproved, period)
	if err != nil {
		return Balance{}, err
	}
	pending, err := s.Store.SumDayFractions(ctx, tenantID, employeeID, leaveTypeID, StatusPending, period)
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(leaveType.DefaultDays, used, pending), nil
}

type DecideResult struct {
	Request  LeaveRequest `json:"request"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Decide moves a pending request to approved or rejected. Terminal either
// way; a second decision is a conflict, not a no-op, so approved days are
// never double-counted.
func (s *Service) Decide(ctx context.Context, tenantID, requestID, decision, reviewerID, rejectionReason string) (DecideResult, error) {
	var status string
	switch decision {
	case DecisionApprove:
		status = StatusApproved
	case DecisionReject:
		if rejectionReason == "" {
			return DecideResult{}, validationError("rejectionReason", "required when rejecting")
		}
		status = StatusRejected
	default:
		return DecideResult{}, validationError("decision", "must be approve or reject")
	}

	decided, err := s.Store.DecideRequest(ctx, tenantID, requestID, status, reviewerID, rejectionReason)
	if err != nil {
		return DecideResult{}, err
	}
	if !decided {
		exists, err := s.Store.RequestExists(ctx, tenantID, requestID)
		if err != nil {
			return DecideResult{}, err
		}
		if !exists {
			return DecideResult{}, ErrRequestNotFound
		}
		return DecideResult{}, ErrAlreadyDecided
	}

	req, err := s.Store.GetRequest(ctx, tenantID, requestID)
	if err != nil {
		return DecideResult{}, err
	}

	var warnings []Warning
	if status == StatusApproved {
		// A late approval never mutates a locked summary; it flags it for
		// manual reconciliation instead.
		stale, err := s.Store.FlagStaleLockedSummaries(ctx, tenantID, req.EmployeeID, req.ID)
		if err != nil {
			return DecideResult{}, err
		}
		if stale > 0 {
			warnings = append(warnings, Warning{
				Code:    WarningStaleSummary,
				Message: fmt.Sprintf("%d locked attendance summary(ies) now stale relative to this approval", stale),
			})
		}
	}

	s.Audit.Record(ctx, tenantID, reviewerID, "leave.request."+decision, "leave_request", req.ID,
		requestctx.GetRequestID(ctx), map[string]string{"status": StatusPending}, map[string]string{"status": status})
	s.Notify.Notify(ctx, tenantID, req.EmployeeID, "leave_"+status,
		"Leave request "+status,
		fmt.Sprintf("Your leave request %s .. %s was %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), status))

	return DecideResult{Request: req, Warnings: warnings}, nil
}

// FindConflicts is advisory: approved leave of department colleagues whose
// range intersects [start, end]. Never blocks a submission.
func (s *Service) FindConflicts(ctx context.Context, tenantID, employeeID string, start, end time.Time) ([]Conflict, error) {
	departmentID, err := s.Org.DepartmentOfEmployee(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if departmentID == "" {
		return nil, nil
	}
	return s.Store.ApprovedRequestsOverlapping(ctx, tenantID, departmentID, employeeID, NormalizeDate(start), NormalizeDate(end))
}

func (s *Service) GetRequest(ctx context.Context, tenantID, requestID string) (LeaveRequest, error) {
	req, err := s.Store.GetRequest(ctx, tenantID, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeaveRequest{}, ErrRequestNotFound
		}
		return LeaveRequest{}, err
	}
	return req, nil
}
