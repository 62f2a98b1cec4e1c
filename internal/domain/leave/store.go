package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateType(ctx context.Context, tenantID string, payload LeaveType) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (tenant_id, name, code, is_paid, requires_doc, requires_approval, default_days, accrual_rate, carry_over_limit)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, tenantID, payload.Name, payload.Code, payload.IsPaid, payload.RequiresDoc, payload.RequiresApproval,
		payload.DefaultDays, payload.AccrualRate, payload.CarryOverLimit).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListTypes(ctx context.Context, tenantID string) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, code, is_paid, requires_doc, requires_approval, default_days, accrual_rate, carry_over_limit, created_at
    FROM leave_types
    WHERE tenant_id = $1
    ORDER BY name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.IsPaid, &t.RequiresDoc, &t.RequiresApproval,
			&t.DefaultDays, &t.AccrualRate, &t.CarryOverLimit, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *Store) LeaveTypeByID(ctx context.Context, tenantID, leaveTypeID string) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, code, is_paid, requires_doc, requires_approval, default_days, accrual_rate, carry_over_limit, created_at
    FROM leave_types
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, leaveTypeID).Scan(&t.ID, &t.Name, &t.Code, &t.IsPaid, &t.RequiresDoc, &t.RequiresApproval,
		&t.DefaultDays, &t.AccrualRate, &t.CarryOverLimit, &t.CreatedAt)
	if err != nil {
		return LeaveType{}, err
	}
	return t, nil
}

// InsertRequest writes the parent row and its day rows in one transaction;
// a submission is never partially applied.
func (s *Store) InsertRequest(ctx context.Context, tenantID string, req *LeaveRequest) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
    INSERT INTO leave_requests (tenant_id, employee_id, leave_type_id, start_date, end_date, total_days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id, created_at
  `, tenantID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.TotalDays, req.Reason, req.Status).
		Scan(&req.ID, &req.CreatedAt); err != nil {
		return err
	}

	for i := range req.Days {
		day := &req.Days[i]
		if err := tx.QueryRow(ctx, `
      INSERT INTO leave_request_days (tenant_id, leave_request_id, day_date, day_type)
      VALUES ($1,$2,$3,$4)
      RETURNING id
    `, tenantID, req.ID, day.Date, day.DayType).Scan(&day.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetRequest(ctx context.Context, tenantID, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, leave_type_id, start_date, end_date, total_days, reason, status,
           COALESCE(decided_by::text, ''), decided_at, COALESCE(rejection_reason, ''), created_at
    FROM leave_requests
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, requestID).Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.TotalDays, &req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.RejectionReason, &req.CreatedAt)
	if err != nil {
		return LeaveRequest{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, day_date, day_type
    FROM leave_request_days
    WHERE tenant_id = $1 AND leave_request_id = $2
    ORDER BY day_date
  `, tenantID, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var day LeaveRequestDay
		if err := rows.Scan(&day.ID, &day.Date, &day.DayType); err != nil {
			return LeaveRequest{}, err
		}
		req.Days = append(req.Days, day)
	}
	return req, rows.Err()
}

func (s *Store) ListRequests(ctx context.Context, tenantID, employeeID string, limit, offset int) ([]LeaveRequest, error) {
	query := `
    SELECT id, employee_id, leave_type_id, start_date, end_date, total_days, reason, status,
           COALESCE(decided_by::text, ''), decided_at, COALESCE(rejection_reason, ''), created_at
    FROM leave_requests
    WHERE tenant_id = $1
  `
	args := []any{tenantID}
	if employeeID != "" {
		query += " AND employee_id = $2"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"
	if employeeID != "" {
		query += " LIMIT $3 OFFSET $4"
	} else {
		query += " LIMIT $2 OFFSET $3"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
			&req.TotalDays, &req.Reason, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.RejectionReason, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// SumDayFractions totals day contributions of requests in the given status
// whose days fall inside the period. Summing child rows keeps requests that
// straddle a period boundary attributed to the right period.
func (s *Store) SumDayFractions(ctx context.Context, tenantID, employeeID, leaveTypeID, status string, period Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(CASE WHEN d.day_type = 'full' THEN 1.0 ELSE 0.5 END), 0)
    FROM leave_request_days d
    JOIN leave_requests r ON r.id = d.leave_request_id
    WHERE r.tenant_id = $1 AND r.employee_id = $2 AND r.leave_type_id = $3
      AND r.status = $4 AND d.day_date BETWEEN $5 AND $6
  `, tenantID, employeeID, leaveTypeID, status, period.Start, period.End).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// DecideRequest flips pending to a terminal status. The status guard in the
// WHERE clause is the compare-and-swap that keeps two concurrent approvers
// from both succeeding.
func (s *Store) DecideRequest(ctx context.Context, tenantID, requestID, status, reviewerID, rejectionReason string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = $2, decided_at = now(), rejection_reason = NULLIF($3, '')
    WHERE tenant_id = $4 AND id = $5 AND status = $6
  `, status, reviewerID, rejectionReason, tenantID, requestID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) RequestExists(ctx context.Context, tenantID, requestID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leave_requests WHERE tenant_id = $1 AND id = $2
  `, tenantID, requestID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApprovedRequestsOverlapping finds other employees' approved leave in one
// department whose range touches [start, end], endpoints included.
func (s *Store) ApprovedRequestsOverlapping(ctx context.Context, tenantID, departmentID, excludeEmployeeID string, start, end time.Time) ([]Conflict, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.employee_id, e.first_name || ' ' || e.last_name, r.leave_type_id, r.start_date, r.end_date, r.total_days
    FROM leave_requests r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.tenant_id = $1 AND e.department_id = $2 AND r.employee_id <> $3
      AND r.status = $4 AND r.start_date <= $6 AND r.end_date >= $5
    ORDER BY r.start_date
  `, tenantID, departmentID, excludeEmployeeID, StatusApproved, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conflict
	for rows.Next() {
		var c Conflict
		if err := rows.Scan(&c.RequestID, &c.EmployeeID, &c.EmployeeName, &c.LeaveTypeID, &c.StartDate, &c.EndDate, &c.TotalDays); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FlagStaleLockedSummaries marks locked attendance summaries whose period
// contains a day of an approval that arrived after payroll completed. Day
// membership, not parent-range intersection: a non-contiguous request can
// span a locked period without touching it. Locked data is never recomputed;
// the flag routes the case to manual reconciliation.
func (s *Store) FlagStaleLockedSummaries(ctx context.Context, tenantID, employeeID, requestID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_summaries
    SET stale_leave = TRUE
    WHERE tenant_id = $1 AND employee_id = $2 AND is_locked
      AND EXISTS (
        SELECT 1 FROM leave_request_days d
        WHERE d.leave_request_id = $3
          AND d.day_date BETWEEN attendance_summaries.period_start AND attendance_summaries.period_end
      )
  `, tenantID, employeeID, requestID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
