package attendance

import (
	"context"
	"time"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/policy"
	"workforce/internal/requestctx"
)

type Service struct {
	Store  *Store
	Audit  *audit.Service
	Policy policy.Bundle
}

func NewService(store *Store, auditSvc *audit.Service, bundle policy.Bundle) *Service {
	return &Service{Store: store, Audit: auditSvc, Policy: bundle}
}

func (s *Service) RecordDay(ctx context.Context, tenantID string, record DayRecord) (DayRecord, error) {
	record.Date = normalizeDate(record.Date)
	if err := s.Store.UpsertDayRecord(ctx, tenantID, &record); err != nil {
		return DayRecord{}, err
	}
	return record, nil
}

// Aggregate recomputes the summary for one (employee, period) pair. The
// whole read-compute-write cycle runs in a single transaction: the FOR
// UPDATE read serializes concurrent aggregations on the same key, and the
// lock-guarded upsert closes the race with a concurrent payroll completion.
func (s *Service) Aggregate(ctx context.Context, tenantID, employeeID string, period Period) (Summary, error) {
	tx, err := s.Store.DB.Begin(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locked, exists, err := s.Store.lockStateTx(ctx, tx, tenantID, employeeID, period)
	if err != nil {
		return Summary{}, err
	}
	if exists && locked {
		return Summary{}, ErrSummaryLocked
	}

	records, err := s.Store.dayRecordsTx(ctx, tx, tenantID, employeeID, period)
	if err != nil {
		return Summary{}, err
	}
	leaveDays, err := s.Store.approvedLeaveDaysTx(ctx, tx, tenantID, employeeID, period)
	if err != nil {
		return Summary{}, err
	}

	summary := Compute(employeeID, period, records, leaveDays, s.Policy)
	if err := s.Store.upsertSummaryTx(ctx, tx, tenantID, &summary); err != nil {
		return Summary{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Summary{}, err
	}

	s.Audit.Record(ctx, tenantID, "", "attendance.summary.aggregate", "attendance_summary", summary.ID,
		requestctx.GetRequestID(ctx), nil, summary)
	return summary, nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) GetSummary(ctx context.Context, tenantID, employeeID string, period Period) (Summary, error) {
	return s.Store.GetSummary(ctx, tenantID, employeeID, period)
}

func (s *Service) ListSummaries(ctx context.Context, tenantID string, period Period) ([]Summary, error) {
	return s.Store.ListSummaries(ctx, tenantID, period)
}

func (s *Service) ListStale(ctx context.Context, tenantID string) ([]Summary, error) {
	return s.Store.ListStale(ctx, tenantID)
}
