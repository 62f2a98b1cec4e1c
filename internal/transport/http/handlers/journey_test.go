package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/internal/app/server"
	"workforce/internal/auth"
	"workforce/internal/domain/leave"
	"workforce/internal/domain/payroll"
	"workforce/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		LogLevel:           "error",
		AllowedOrigins:     []string{"*"},
		RunMigrations:      true,
		MigrationsDir:      "../../../../migrations",
		RunSeed:            true,
		SeedTenantName:     "Test Tenant",
		WorkingDays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StandardDailyHours: 8,
		HalfDayHourFactor:  0.5,
		OverdrawPolicy:     config.OverdrawWarn,
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts, cfg
}

func signToken(t *testing.T, cfg config.Config, tenantID, employeeID, role string) string {
	t.Helper()
	token, err := auth.SignToken(cfg.JWTSecret, auth.UserContext{
		UserID:     uuid.NewString(),
		TenantID:   tenantID,
		EmployeeID: employeeID,
		Role:       role,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func tenantIDByName(t *testing.T, app *server.App, name string) string {
	t.Helper()
	var tenantID string
	require.NoError(t, app.DB.QueryRow(context.Background(), "SELECT id FROM tenants WHERE name = $1", name).Scan(&tenantID))
	return tenantID
}

func leaveTypeIDByCode(t *testing.T, app *server.App, tenantID, code string) string {
	t.Helper()
	var id string
	require.NoError(t, app.DB.QueryRow(context.Background(),
		"SELECT id FROM leave_types WHERE tenant_id = $1 AND code = $2", tenantID, code).Scan(&id))
	return id
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, departmentID string) string {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/org/employees", token, map[string]any{
		"firstName":    "Jordan",
		"lastName":     "Reyes",
		"email":        fmt.Sprintf("journey-%s@example.com", uuid.NewString()),
		"departmentId": departmentID,
	})
	require.Equal(t, http.StatusCreated, status)
	var created map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created["id"]
}

func TestLeaveAttendancePayrollJourney(t *testing.T) {
	app, ts, cfg := startApp(t)
	client := ts.Client()
	tenantID := tenantIDByName(t, app, cfg.SeedTenantName)
	annualTypeID := leaveTypeIDByCode(t, app, tenantID, "ANNUAL")

	hrToken := signToken(t, cfg, tenantID, "", auth.RoleHR)

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/org/departments", hrToken, map[string]string{
		"name": fmt.Sprintf("Engineering %s", uuid.NewString()),
	})
	require.Equal(t, http.StatusCreated, status)
	var dept map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &dept))
	departmentID := dept["id"]

	firstEmployee := createEmployee(t, client, ts.URL, hrToken, departmentID)
	secondEmployee := createEmployee(t, client, ts.URL, hrToken, departmentID)

	firstToken := signToken(t, cfg, tenantID, firstEmployee, auth.RoleEmployee)
	secondToken := signToken(t, cfg, tenantID, secondEmployee, auth.RoleEmployee)

	// Monday full plus Tuesday first half totals 1.5 days.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", firstToken, map[string]any{
		"leaveTypeId": annualTypeID,
		"days": []map[string]string{
			{"date": "2026-01-12", "dayType": "full"},
			{"date": "2026-01-13", "dayType": "first_half"},
		},
		"reason": "family visit",
	})
	require.Equal(t, http.StatusCreated, status)
	var submitted struct {
		Request struct {
			ID        string          `json:"id"`
			Status    string          `json:"status"`
			TotalDays decimal.Decimal `json:"totalDays"`
		} `json:"request"`
		Warnings []struct {
			Code string `json:"code"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "pending", submitted.Request.Status)
	assert.True(t, submitted.Request.TotalDays.Equal(decimal.NewFromFloat(1.5)))

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+submitted.Request.ID+"/approve", hrToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Approving twice is a conflict, not a repeat.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+submitted.Request.ID+"/approve", hrToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// A colleague requesting an overlapping day gets an advisory conflict
	// warning, never a rejection.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", secondToken, map[string]any{
		"leaveTypeId": annualTypeID,
		"days":        []map[string]string{{"date": "2026-01-13", "dayType": "full"}},
	})
	require.Equal(t, http.StatusCreated, status)
	var colleague struct {
		Warnings []struct {
			Code string `json:"code"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &colleague))
	codes := make([]string, 0, len(colleague.Warnings))
	for _, w := range colleague.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, leave.WarningTeamConflict)

	// Ingest a short week of attendance and aggregate January for the first
	// employee.
	for _, day := range []string{"2026-01-05", "2026-01-06", "2026-01-07"} {
		status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance/records", hrToken, map[string]string{
			"employeeId":  firstEmployee,
			"date":        day,
			"status":      "present",
			"workedHours": "8",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	aggregateBody := map[string]string{
		"employeeId":  firstEmployee,
		"periodStart": "2026-01-01",
		"periodEnd":   "2026-01-31",
	}
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance/summaries/aggregate", hrToken, aggregateBody)
	require.Equal(t, http.StatusOK, status)

	// Run the payroll gate over January.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs", hrToken, map[string]string{
		"periodStart": "2026-01-01",
		"periodEnd":   "2026-01-31",
	})
	require.Equal(t, http.StatusCreated, status)
	var run struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &run))

	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs/"+run.ID+"/process", hrToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs/"+run.ID+"/complete", hrToken, nil)
	require.Equal(t, http.StatusOK, status)
	var gate struct {
		Locked   int `json:"locked"`
		Warnings []struct {
			Code       string `json:"code"`
			EmployeeID string `json:"employeeId"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &gate))
	assert.GreaterOrEqual(t, gate.Locked, 1)
	foundMissing := false
	for _, w := range gate.Warnings {
		if w.Code == payroll.WarningMissingAttendance && w.EmployeeID == secondEmployee {
			foundMissing = true
		}
	}
	assert.True(t, foundMissing, "expected missing attendance warning for employee without a summary")

	// Completing the same run again fails the state swap.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs/"+run.ID+"/complete", hrToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// The locked summary refuses re-aggregation.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance/summaries/aggregate", hrToken, aggregateBody)
	require.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "summary_locked", env.Error.Code)

	// Lock February as well so the late approval below has two locked
	// periods to choose from.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/attendance/summaries/aggregate", hrToken, map[string]string{
		"employeeId":  firstEmployee,
		"periodStart": "2026-02-01",
		"periodEnd":   "2026-02-28",
	})
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs", hrToken, map[string]string{
		"periodStart": "2026-02-01",
		"periodEnd":   "2026-02-28",
	})
	require.Equal(t, http.StatusCreated, status)
	var februaryRun struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &februaryRun))
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs/"+februaryRun.ID+"/process", hrToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs/"+februaryRun.ID+"/complete", hrToken, nil)
	require.Equal(t, http.StatusOK, status)

	// A late approval flags the locked summary stale instead of mutating
	// it. The days are non-contiguous around February, so the parent range
	// spans the locked February period without containing a leave day in
	// it; only January may be flagged.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", firstToken, map[string]any{
		"leaveTypeId": annualTypeID,
		"days": []map[string]string{
			{"date": "2026-01-20", "dayType": "full"},
			{"date": "2026-03-02", "dayType": "full"},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	var late struct {
		Request struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &late))

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+late.Request.ID+"/approve", hrToken, nil)
	require.Equal(t, http.StatusOK, status)
	var decided struct {
		Warnings []struct {
			Code string `json:"code"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &decided))
	staleWarned := false
	for _, w := range decided.Warnings {
		if w.Code == leave.WarningStaleSummary {
			staleWarned = true
		}
	}
	assert.True(t, staleWarned, "expected stale summary warning on late approval")

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/attendance/summaries/stale", hrToken, nil)
	require.Equal(t, http.StatusOK, status)
	var stale []struct {
		EmployeeID  string `json:"employeeId"`
		PeriodStart string `json:"periodStart"`
		IsLocked    bool   `json:"isLocked"`
		StaleLeave  bool   `json:"staleLeave"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stale))
	foundStale := false
	for _, s := range stale {
		if s.EmployeeID != firstEmployee {
			continue
		}
		foundStale = true
		assert.True(t, s.IsLocked)
		assert.True(t, s.StaleLeave)
		assert.True(t, strings.HasPrefix(s.PeriodStart, "2026-01"),
			"locked February summary contains no leave day and must stay clean, got period %s", s.PeriodStart)
	}
	assert.True(t, foundStale, "expected the locked January summary in the stale list")
}

func TestRejectRequiresReason(t *testing.T) {
	app, ts, cfg := startApp(t)
	client := ts.Client()
	tenantID := tenantIDByName(t, app, cfg.SeedTenantName)
	annualTypeID := leaveTypeIDByCode(t, app, tenantID, "ANNUAL")

	hrToken := signToken(t, cfg, tenantID, "", auth.RoleHR)
	employeeID := createEmployee(t, client, ts.URL, hrToken, "")
	employeeToken := signToken(t, cfg, tenantID, employeeID, auth.RoleEmployee)

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", employeeToken, map[string]any{
		"leaveTypeId": annualTypeID,
		"days":        []map[string]string{{"date": "2026-02-02", "dayType": "full"}},
	})
	require.Equal(t, http.StatusCreated, status)
	var submitted struct {
		Request struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+submitted.Request.ID+"/reject", hrToken, map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)

	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+submitted.Request.ID+"/reject", hrToken, map[string]string{
		"rejectionReason": "insufficient coverage",
	})
	require.Equal(t, http.StatusOK, status)
}

func TestConcurrentSubmissionsMayOverdraw(t *testing.T) {
	app, ts, cfg := startApp(t)
	client := ts.Client()
	tenantID := tenantIDByName(t, app, cfg.SeedTenantName)
	unpaidTypeID := leaveTypeIDByCode(t, app, tenantID, "UNPAID")

	hrToken := signToken(t, cfg, tenantID, "", auth.RoleHR)
	employeeID := createEmployee(t, client, ts.URL, hrToken, "")
	employeeToken := signToken(t, cfg, tenantID, employeeID, auth.RoleEmployee)

	// Unpaid leave allocates zero days, so every submission overdraws. Both
	// concurrent submissions must succeed; the balance read afterwards
	// reports the negative remainder.
	dates := []string{"2026-03-02", "2026-03-03"}
	var wg sync.WaitGroup
	statuses := make([]int, len(dates))
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			status, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", employeeToken, map[string]any{
				"leaveTypeId": unpaidTypeID,
				"days":        []map[string]string{{"date": date, "dayType": "full"}},
			})
			statuses[i] = status
		}(i, date)
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Equal(t, http.StatusCreated, status)
	}

	status, env := doJSON(t, client, http.MethodGet,
		ts.URL+"/api/v1/leave/balance?leaveTypeId="+unpaidTypeID+"&date=2026-03-02", employeeToken, nil)
	require.Equal(t, http.StatusOK, status)
	var balance struct {
		Allocated decimal.Decimal `json:"allocated"`
		Pending   decimal.Decimal `json:"pending"`
		Remaining decimal.Decimal `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.True(t, balance.Allocated.IsZero())
	assert.True(t, balance.Pending.Equal(decimal.NewFromInt(2)))
	assert.True(t, balance.Remaining.Equal(decimal.NewFromInt(-2)))
}
