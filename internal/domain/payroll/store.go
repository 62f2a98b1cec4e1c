package payroll

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"workforce/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRun(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (Run, error) {
	run := Run{PeriodStart: periodStart, PeriodEnd: periodEnd, Status: RunStatusDraft}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs (tenant_id, period_start, period_end, status)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, tenantID, periodStart, periodEnd, RunStatusDraft).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) GetRun(ctx context.Context, tenantID, runID string) (Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_start, period_end, status, created_at, completed_at
    FROM payroll_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err == pgx.ErrNoRows {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_start, period_end, status, created_at, completed_at
    FROM payroll_runs
    WHERE tenant_id = $1
    ORDER BY period_start DESC, created_at DESC
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TransitionRun is a compare-and-swap on the run status; completing a run
// twice fails the swap rather than re-running the gate.
func (s *Store) TransitionRun(ctx context.Context, tenantID, runID, from, to string) (bool, error) {
	query := `
    UPDATE payroll_runs
    SET status = $1
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `
	if to == RunStatusCompleted {
		query = `
    UPDATE payroll_runs
    SET status = $1, completed_at = now()
    WHERE tenant_id = $2 AND id = $3 AND status = $4
  `
	}
	tag, err := s.DB.Exec(ctx, query, to, tenantID, runID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// EmployeePeriodRows pairs every active employee with their summary state
// for the run's period.
func (s *Store) EmployeePeriodRows(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) ([]EmployeePeriodRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id,
           s.id IS NOT NULL,
           COALESCE(s.is_locked, FALSE),
           COALESCE(s.unpaid_leave_days, 0)
    FROM employees e
    LEFT JOIN attendance_summaries s
      ON s.tenant_id = e.tenant_id AND s.employee_id = e.id
     AND s.period_start = $2 AND s.period_end = $3
    WHERE e.tenant_id = $1 AND e.active
    ORDER BY e.id
  `, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeePeriodRow
	for rows.Next() {
		var row EmployeePeriodRow
		if err := rows.Scan(&row.EmployeeID, &row.HasSummary, &row.AlreadyLocked, &row.UnpaidLeaveDays); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LockSummary flips the one-way lock flag. "Check not locked, then set
// locked" is a single statement, so a racing aggregation either commits
// before the flip or fails against the locked row afterwards.
func (s *Store) LockSummary(ctx context.Context, tenantID, employeeID string, periodStart, periodEnd time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_summaries
    SET is_locked = TRUE
    WHERE tenant_id = $1 AND employee_id = $2 AND period_start = $3 AND period_end = $4
      AND is_locked = FALSE
  `, tenantID, employeeID, periodStart, periodEnd)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) RegisterRows(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT s.employee_id, e.first_name || ' ' || e.last_name,
           s.days_present, s.full_day_absents, s.paid_leave_days, s.unpaid_leave_days,
           s.total_working_hours, s.overtime_hours
    FROM attendance_summaries s
    JOIN employees e ON e.id = s.employee_id
    WHERE s.tenant_id = $1 AND s.period_start = $2 AND s.period_end = $3
    ORDER BY e.last_name, e.first_name
  `, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var row RegisterRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.DaysPresent, &row.FullDayAbsents,
			&row.PaidLeaveDays, &row.UnpaidLeaveDays, &row.TotalWorkingHours, &row.OvertimeHours); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
