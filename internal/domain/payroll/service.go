package payroll

import (
	"context"
	"errors"
	"time"

	"workforce/internal/domain/audit"
	"workforce/internal/requestctx"
)

type Service struct {
	Store *Store
	Audit *audit.Service
}

func NewService(store *Store, auditSvc *audit.Service) *Service {
	return &Service{Store: store, Audit: auditSvc}
}

func (s *Service) CreateRun(ctx context.Context, tenantID, actorID string, periodStart, periodEnd time.Time) (Run, error) {
	if periodEnd.Before(periodStart) {
		return Run{}, errors.New("period end before period start")
	}
	run, err := s.Store.CreateRun(ctx, tenantID, periodStart, periodEnd)
	if err != nil {
		return Run{}, err
	}
	s.Audit.Record(ctx, tenantID, actorID, "payroll.run.create", "payroll_run", run.ID,
		requestctx.GetRequestID(ctx), nil, run)
	return run, nil
}

func (s *Service) GetRun(ctx context.Context, tenantID, runID string) (Run, error) {
	return s.Store.GetRun(ctx, tenantID, runID)
}

func (s *Service) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]Run, error) {
	return s.Store.ListRuns(ctx, tenantID, limit, offset)
}

func (s *Service) StartProcessing(ctx context.Context, tenantID, actorID, runID string) (Run, error) {
	moved, err := s.Store.TransitionRun(ctx, tenantID, runID, RunStatusDraft, RunStatusProcessing)
	if err != nil {
		return Run{}, err
	}
	if !moved {
		run, err := s.Store.GetRun(ctx, tenantID, runID)
		if err != nil {
			return Run{}, err
		}
		return run, ErrInvalidRunState
	}

	run, err := s.Store.GetRun(ctx, tenantID, runID)
	if err != nil {
		return Run{}, err
	}
	s.Audit.Record(ctx, tenantID, actorID, "payroll.run.process", "payroll_run", runID,
		requestctx.GetRequestID(ctx), map[string]string{"status": RunStatusDraft}, map[string]string{"status": RunStatusProcessing})
	return run, nil
}

// Complete moves a processing run to completed and locks the period's
// attendance summaries. The status swap happens first so only one caller
// runs the gate. Each summary is locked in its own statement; one failure
// is recorded and the loop continues, because a half-locked period with a
// failure report beats an aborted run.
func (s *Service) Complete(ctx context.Context, tenantID, actorID, runID string) (GateResult, error) {
	run, err := s.Store.GetRun(ctx, tenantID, runID)
	if err != nil {
		return GateResult{}, err
	}

	moved, err := s.Store.TransitionRun(ctx, tenantID, runID, RunStatusProcessing, RunStatusCompleted)
	if err != nil {
		return GateResult{}, err
	}
	if !moved {
		return GateResult{}, ErrInvalidRunState
	}

	rows, err := s.Store.EmployeePeriodRows(ctx, tenantID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return GateResult{}, err
	}

	result := GateResult{RunID: runID, Warnings: GateWarnings(rows)}
	for _, row := range rows {
		if !row.HasSummary {
			continue
		}
		if row.AlreadyLocked {
			result.AlreadyLocked++
			continue
		}
		locked, err := s.Store.LockSummary(ctx, tenantID, row.EmployeeID, run.PeriodStart, run.PeriodEnd)
		if err != nil {
			result.Failures = append(result.Failures, LockFailure{EmployeeID: row.EmployeeID, Reason: err.Error()})
			continue
		}
		if locked {
			result.Locked++
		} else {
			// Raced with another run over the same period.
			result.AlreadyLocked++
		}
	}

	s.Audit.Record(ctx, tenantID, actorID, "payroll.run.complete", "payroll_run", runID,
		requestctx.GetRequestID(ctx), map[string]string{"status": RunStatusProcessing}, result)
	return result, nil
}

func (s *Service) Register(ctx context.Context, tenantID, runID string) (Run, []RegisterRow, error) {
	run, err := s.Store.GetRun(ctx, tenantID, runID)
	if err != nil {
		return Run{}, nil, err
	}
	rows, err := s.Store.RegisterRows(ctx, tenantID, run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return Run{}, nil, err
	}
	return run, rows, nil
}
