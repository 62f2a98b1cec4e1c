package attendance

import (
	"context"

	"github.com/jackc/pgx/v5"

	"workforce/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// UpsertDayRecord ingests one raw attendance fact; re-ingesting a date
// replaces the previous fact.
func (s *Store) UpsertDayRecord(ctx context.Context, tenantID string, record *DayRecord) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (tenant_id, employee_id, day_date, day_status, worked_hours)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (tenant_id, employee_id, day_date)
    DO UPDATE SET day_status = EXCLUDED.day_status, worked_hours = EXCLUDED.worked_hours
    RETURNING id
  `, tenantID, record.EmployeeID, record.Date, record.Status, record.WorkedHours).Scan(&record.ID)
}

func (s *Store) lockStateTx(ctx context.Context, tx pgx.Tx, tenantID, employeeID string, period Period) (locked, exists bool, err error) {
	err = tx.QueryRow(ctx, `
    SELECT is_locked
    FROM attendance_summaries
    WHERE tenant_id = $1 AND employee_id = $2 AND period_start = $3 AND period_end = $4
    FOR UPDATE
  `, tenantID, employeeID, period.Start, period.End).Scan(&locked)
	if err == pgx.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return locked, true, nil
}

func (s *Store) dayRecordsTx(ctx context.Context, tx pgx.Tx, tenantID, employeeID string, period Period) ([]DayRecord, error) {
	rows, err := tx.Query(ctx, `
    SELECT id, employee_id, day_date, day_status, worked_hours
    FROM attendance_records
    WHERE tenant_id = $1 AND employee_id = $2 AND day_date BETWEEN $3 AND $4
    ORDER BY day_date
  `, tenantID, employeeID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayRecord
	for rows.Next() {
		var r DayRecord
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Date, &r.Status, &r.WorkedHours); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// approvedLeaveDaysTx reads approved leave day rows inside the period,
// joined through to the leave type's paid flag.
func (s *Store) approvedLeaveDaysTx(ctx context.Context, tx pgx.Tx, tenantID, employeeID string, period Period) ([]LeaveDay, error) {
	rows, err := tx.Query(ctx, `
    SELECT d.day_date,
           CASE WHEN d.day_type = 'full' THEN 1.0 ELSE 0.5 END,
           lt.is_paid
    FROM leave_request_days d
    JOIN leave_requests r ON r.id = d.leave_request_id
    JOIN leave_types lt ON lt.id = r.leave_type_id
    WHERE r.tenant_id = $1 AND r.employee_id = $2 AND r.status = 'approved'
      AND d.day_date BETWEEN $3 AND $4
    ORDER BY d.day_date
  `, tenantID, employeeID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveDay
	for rows.Next() {
		var day LeaveDay
		if err := rows.Scan(&day.Date, &day.Fraction, &day.IsPaid); err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

// upsertSummaryTx writes the summary only while the row is unlocked; the
// lock guard in the conflict clause makes "check not locked, then write" one
// atomic statement. Recomputation clears the stale flag: the fresh rollup
// already includes every approved leave day.
func (s *Store) upsertSummaryTx(ctx context.Context, tx pgx.Tx, tenantID string, summary *Summary) error {
	err := tx.QueryRow(ctx, `
    INSERT INTO attendance_summaries
      (tenant_id, employee_id, period_start, period_end, days_present, days_late, full_day_absents,
       paid_leave_days, unpaid_leave_days, total_working_hours, overtime_hours, is_locked, stale_leave, computed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,FALSE,FALSE,now())
    ON CONFLICT (tenant_id, employee_id, period_start, period_end)
    DO UPDATE SET
      days_present = EXCLUDED.days_present,
      days_late = EXCLUDED.days_late,
      full_day_absents = EXCLUDED.full_day_absents,
      paid_leave_days = EXCLUDED.paid_leave_days,
      unpaid_leave_days = EXCLUDED.unpaid_leave_days,
      total_working_hours = EXCLUDED.total_working_hours,
      overtime_hours = EXCLUDED.overtime_hours,
      stale_leave = FALSE,
      computed_at = now()
    WHERE attendance_summaries.is_locked = FALSE
    RETURNING id, computed_at
  `, tenantID, summary.EmployeeID, summary.PeriodStart, summary.PeriodEnd,
		summary.DaysPresent, summary.DaysLate, summary.FullDayAbsents,
		summary.PaidLeaveDays, summary.UnpaidLeaveDays, summary.TotalWorkingHours, summary.OvertimeHours).
		Scan(&summary.ID, &summary.ComputedAt)
	if err == pgx.ErrNoRows {
		return ErrSummaryLocked
	}
	return err
}

func (s *Store) GetSummary(ctx context.Context, tenantID, employeeID string, period Period) (Summary, error) {
	var out Summary
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, period_start, period_end, days_present, days_late, full_day_absents,
           paid_leave_days, unpaid_leave_days, total_working_hours, overtime_hours, is_locked, stale_leave, computed_at
    FROM attendance_summaries
    WHERE tenant_id = $1 AND employee_id = $2 AND period_start = $3 AND period_end = $4
  `, tenantID, employeeID, period.Start, period.End).
		Scan(&out.ID, &out.EmployeeID, &out.PeriodStart, &out.PeriodEnd, &out.DaysPresent, &out.DaysLate,
			&out.FullDayAbsents, &out.PaidLeaveDays, &out.UnpaidLeaveDays, &out.TotalWorkingHours,
			&out.OvertimeHours, &out.IsLocked, &out.StaleLeave, &out.ComputedAt)
	if err == pgx.ErrNoRows {
		return Summary{}, ErrSummaryNotFound
	}
	if err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *Store) ListSummaries(ctx context.Context, tenantID string, period Period) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, period_start, period_end, days_present, days_late, full_day_absents,
           paid_leave_days, unpaid_leave_days, total_working_hours, overtime_hours, is_locked, stale_leave, computed_at
    FROM attendance_summaries
    WHERE tenant_id = $1 AND period_start = $2 AND period_end = $3
    ORDER BY employee_id
  `, tenantID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// ListStale lists locked summaries flagged by late leave approvals; these
// wait for the manual unlock-and-recompute workflow.
func (s *Store) ListStale(ctx context.Context, tenantID string) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, period_start, period_end, days_present, days_late, full_day_absents,
           paid_leave_days, unpaid_leave_days, total_working_hours, overtime_hours, is_locked, stale_leave, computed_at
    FROM attendance_summaries
    WHERE tenant_id = $1 AND stale_leave
    ORDER BY period_start, employee_id
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]Summary, error) {
	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.PeriodStart, &s.PeriodEnd, &s.DaysPresent, &s.DaysLate,
			&s.FullDayAbsents, &s.PaidLeaveDays, &s.UnpaidLeaveDays, &s.TotalWorkingHours,
			&s.OvertimeHours, &s.IsLocked, &s.StaleLeave, &s.ComputedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
