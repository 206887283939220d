package autoclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/hours"
	"golang.org/x/sync/errgroup"
)

// CoverageChecker is the slice of the exception ledger the engine needs:
// whether a non-rejected exception covers a contractor's date.
type CoverageChecker interface {
	HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error)
}

// defaultWorkerLimit bounds the per-cycle contractor fan-out.
const defaultWorkerLimit = 8

// Engine materializes time entries for auto-clocked contractors. It is a
// plain object with injected dependencies and an injected clock; the
// recurring wiring lives in internal/pkg/cron.
type Engine struct {
	contractorRepo contractor.ContractorRepository
	entryRepo      timeentry.TimeEntryRepository
	exceptions     CoverageChecker
	calc           *hours.Calculator
	now            func() time.Time
	workerLimit    int
}

func NewEngine(
	contractorRepo contractor.ContractorRepository,
	entryRepo timeentry.TimeEntryRepository,
	exceptions CoverageChecker,
	calc *hours.Calculator,
) *Engine {
	return &Engine{
		contractorRepo: contractorRepo,
		entryRepo:      entryRepo,
		exceptions:     exceptions,
		calc:           calc,
		now:            time.Now,
		workerLimit:    defaultWorkerLimit,
	}
}

// SetWorkerLimit overrides the per-cycle fan-out bound.
func (e *Engine) SetWorkerLimit(n int) {
	if n > 0 {
		e.workerLimit = n
	}
}

// CycleResult summarizes one recurring cycle run.
type CycleResult struct {
	Mode      contractor.ProcessingMode `json:"mode"`
	Processed int64                     `json:"processed"`
	Created   int64                     `json:"created"`
	Failed    int64                     `json:"failed"`
}

// RegenerateResult reports an administrative regeneration.
type RegenerateResult struct {
	Deleted int64 `json:"deleted"`
	Created int   `json:"created"`
}

// GenerationStats holds auto-generation counts per processing mode over
// the three monitoring windows.
type GenerationStats struct {
	Today     map[string]int64 `json:"today"`
	ThisWeek  map[string]int64 `json:"this_week"`
	ThisMonth map[string]int64 `json:"this_month"`
}

// ProcessContractorDate runs the per-contractor decision procedure for one
// target date. It is idempotent: re-running for the same contractor and
// date never produces a second auto-generated entry. A zero date means
// "today in the contractor's timezone".
func (e *Engine) ProcessContractorDate(ctx context.Context, c contractor.Contractor, date time.Time) (bool, error) {
	profile := c.AutoClocking
	if !profile.Enabled {
		return false, contractor.ErrAutoClockingDisabled
	}
	if err := profile.Validate(); err != nil {
		return false, err
	}

	loc := profile.Location()
	if date.IsZero() {
		date = e.now().In(loc)
	}
	// Canonical day key: the civil date at UTC midnight.
	workDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	if !profile.WorksOn(workDate.Weekday()) {
		return false, nil
	}

	covered, err := e.exceptions.HasCoverage(ctx, c.TenantID, c.ID, workDate)
	if err != nil {
		return false, fmt.Errorf("failed to check exception coverage: %w", err)
	}
	if covered {
		slog.Debug("Auto-clocking suppressed by exception",
			"contractor_id", c.ID, "date", workDate.Format("2006-01-02"))
		return false, nil
	}

	exists, err := e.entryRepo.HasAutoGenerated(ctx, c.TenantID, c.ID, workDate)
	if err != nil {
		return false, fmt.Errorf("failed to check existing auto entry: %w", err)
	}
	if exists {
		return false, nil
	}

	clockIn, clockOut, err := profile.IntervalOn(workDate)
	if err != nil {
		return false, err
	}

	breakdown := e.calc.Calculate(clockIn, clockOut, 0, c.DefaultProjectID != nil)

	nowUTC := e.now().UTC()
	entry := timeentry.TimeEntry{
		ID:               uuid.NewString(),
		TenantID:         c.TenantID,
		ContractorID:     c.ID,
		ProjectID:        c.DefaultProjectID,
		WorkDate:         workDate,
		ClockIn:          clockIn,
		ClockOut:         &clockOut,
		TotalHours:       breakdown.Total,
		RegularHours:     breakdown.Regular,
		OvertimeHours:    breakdown.Overtime,
		DoubleTimeHours:  breakdown.DoubleTime,
		BillableHours:    breakdown.Billable,
		NonBillableHours: breakdown.NonBillable,
		RequiresApproval: profile.RequiresApproval,
		IsAutoGenerated:  true,
		GeneratedAt:      &nowUTC,
	}

	if profile.RequiresApproval {
		entry.Status = timeentry.StatusPending
	} else {
		notes := "auto-approved by tenant policy"
		entry.Status = timeentry.StatusAutoApproved
		entry.ApprovalRecords = timeentry.ApprovalRecords{{
			ApproverID:   c.ID,
			ApproverRole: timeentry.RoleManager,
			Decision:     timeentry.DecisionApproved,
			DecidedAt:    nowUTC,
			Notes:        &notes,
		}}
	}

	// The store enforces at most one auto entry per contractor/day; losing
	// the insert race is a skip, not an error.
	created, err := e.entryRepo.CreateAutoGenerated(ctx, entry)
	if err != nil {
		return false, fmt.Errorf("failed to create auto-generated entry: %w", err)
	}
	if !created {
		slog.Debug("Auto entry already present, skipping",
			"contractor_id", c.ID, "date", workDate.Format("2006-01-02"))
		return false, nil
	}

	slog.Info("Auto-generated time entry",
		"contractor_id", c.ID,
		"tenant_id", c.TenantID,
		"date", workDate.Format("2006-01-02"),
		"hours", breakdown.Total,
		"status", entry.Status)
	return true, nil
}

// RunDailyCycle processes all enabled contractors of the given mode for
// the target date. One contractor's failure is logged and does not halt
// the rest of the cycle.
func (e *Engine) RunDailyCycle(ctx context.Context, mode contractor.ProcessingMode, date time.Time) (CycleResult, error) {
	contractors, err := e.contractorRepo.ListAutoClockingEnabled(ctx, mode)
	if err != nil {
		return CycleResult{}, fmt.Errorf("failed to list auto-clocking contractors: %w", err)
	}

	result := CycleResult{Mode: mode}
	var created, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerLimit)
	for _, c := range contractors {
		g.Go(func() error {
			ok, err := e.ProcessContractorDate(gctx, c, date)
			if err != nil {
				failed.Add(1)
				slog.Error("Auto-clocking failed for contractor",
					"contractor_id", c.ID, "tenant_id", c.TenantID, "error", err)
				return nil
			}
			if ok {
				created.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Processed = int64(len(contractors))
	result.Created = created.Load()
	result.Failed = failed.Load()

	slog.Info("Auto-clocking daily cycle completed",
		"mode", mode,
		"processed", result.Processed,
		"created", result.Created,
		"failed", result.Failed)
	return result, nil
}

// RunWeeklyCycle applies the decision procedure to the 5 weekdays of the
// work week containing weekOf, for weekly_batch contractors.
func (e *Engine) RunWeeklyCycle(ctx context.Context, weekOf time.Time) (CycleResult, error) {
	contractors, err := e.contractorRepo.ListAutoClockingEnabled(ctx, contractor.ModeWeeklyBatch)
	if err != nil {
		return CycleResult{}, fmt.Errorf("failed to list auto-clocking contractors: %w", err)
	}

	if weekOf.IsZero() {
		weekOf = e.now()
	}
	monday := startOfWeek(weekOf)

	result := CycleResult{Mode: contractor.ModeWeeklyBatch}
	var created, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerLimit)
	for _, c := range contractors {
		g.Go(func() error {
			for i := 0; i < 5; i++ {
				day := monday.AddDate(0, 0, i)
				ok, err := e.ProcessContractorDate(gctx, c, day)
				if err != nil {
					failed.Add(1)
					slog.Error("Weekly auto-clocking failed for contractor",
						"contractor_id", c.ID, "date", day.Format("2006-01-02"), "error", err)
					continue
				}
				if ok {
					created.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Processed = int64(len(contractors))
	result.Created = created.Load()
	result.Failed = failed.Load()

	slog.Info("Auto-clocking weekly cycle completed",
		"processed", result.Processed,
		"created", result.Created,
		"failed", result.Failed)
	return result, nil
}

// TriggerContractor is the administrative one-off trigger. Unlike the
// recurring cycles it surfaces the specific error to the caller.
func (e *Engine) TriggerContractor(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	c, err := e.contractorRepo.GetByID(ctx, contractorID, tenantID)
	if err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return false, contractor.ErrContractorNotFound
		}
		return false, fmt.Errorf("failed to get contractor: %w", err)
	}
	return e.ProcessContractorDate(ctx, c, date)
}

// Regenerate deletes the contractor's auto-generated entries in
// [start, end] and reapplies the decision procedure per day. Manual
// entries in the range are never touched. This is the only operation
// permitted to delete entries.
func (e *Engine) Regenerate(ctx context.Context, tenantID, contractorID string, start, end time.Time) (RegenerateResult, error) {
	if end.Before(start) {
		return RegenerateResult{}, fmt.Errorf("%w: end date precedes start date", contractor.ErrMalformedSchedule)
	}

	c, err := e.contractorRepo.GetByID(ctx, contractorID, tenantID)
	if err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return RegenerateResult{}, contractor.ErrContractorNotFound
		}
		return RegenerateResult{}, fmt.Errorf("failed to get contractor: %w", err)
	}

	deleted, err := e.entryRepo.DeleteAutoGenerated(ctx, tenantID, contractorID, start, end)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("failed to delete auto-generated entries: %w", err)
	}

	result := RegenerateResult{Deleted: deleted}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		ok, err := e.ProcessContractorDate(ctx, c, day)
		if err != nil {
			slog.Error("Regeneration failed for date",
				"contractor_id", contractorID, "date", day.Format("2006-01-02"), "error", err)
			continue
		}
		if ok {
			result.Created++
		}
	}

	slog.Info("Regeneration completed",
		"contractor_id", contractorID,
		"deleted", result.Deleted,
		"created", result.Created)
	return result, nil
}

// Stats returns auto-generation counts for today, this week and this
// month, broken down by processing mode. Monitoring only.
func (e *Engine) Stats(ctx context.Context) (GenerationStats, error) {
	now := e.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := GenerationStats{}
	var err error
	if stats.Today, err = e.entryRepo.CountAutoGeneratedByMode(ctx, dayStart); err != nil {
		return GenerationStats{}, fmt.Errorf("failed to count today's auto entries: %w", err)
	}
	if stats.ThisWeek, err = e.entryRepo.CountAutoGeneratedByMode(ctx, weekStart); err != nil {
		return GenerationStats{}, fmt.Errorf("failed to count this week's auto entries: %w", err)
	}
	if stats.ThisMonth, err = e.entryRepo.CountAutoGeneratedByMode(ctx, monthStart); err != nil {
		return GenerationStats{}, fmt.Errorf("failed to count this month's auto entries: %w", err)
	}
	return stats, nil
}

// startOfWeek returns UTC midnight of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}
