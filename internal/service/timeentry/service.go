package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/hours"
)

type TimeEntryServiceImpl struct {
	entryRepo      timeentry.TimeEntryRepository
	contractorRepo contractor.ContractorRepository
	calc           *hours.Calculator
	now            func() time.Time
}

func NewTimeEntryService(
	entryRepo timeentry.TimeEntryRepository,
	contractorRepo contractor.ContractorRepository,
	calc *hours.Calculator,
) *TimeEntryServiceImpl {
	return &TimeEntryServiceImpl{
		entryRepo:      entryRepo,
		contractorRepo: contractorRepo,
		calc:           calc,
		now:            time.Now,
	}
}

// ClockIn opens a session for the contractor. At most one open entry per
// contractor is allowed at any time.
func (s *TimeEntryServiceImpl) ClockIn(ctx context.Context, req timeentry.ClockInRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	c, err := s.contractorRepo.GetByID(ctx, req.ContractorID, req.TenantID)
	if err != nil {
		if errors.Is(err, contractor.ErrContractorNotFound) {
			return timeentry.TimeEntryResponse{}, contractor.ErrContractorNotFound
		}
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get contractor: %w", err)
	}

	open, err := s.entryRepo.GetOpenEntry(ctx, req.TenantID, req.ContractorID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to check open entry: %w", err)
	}
	if open != nil {
		return timeentry.TimeEntryResponse{}, timeentry.ErrAlreadyClockedIn
	}

	projectID := req.ProjectID
	if projectID == nil {
		projectID = c.DefaultProjectID
	}

	now := s.now().UTC()
	local := now.In(c.AutoClocking.Location())
	entry := timeentry.TimeEntry{
		ID:           uuid.NewString(),
		TenantID:     req.TenantID,
		ContractorID: req.ContractorID,
		ProjectID:    projectID,
		ClientID:     req.ClientID,
		// The entry belongs to the calendar day the contractor clocked in,
		// in their own timezone.
		WorkDate:         time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		ClockIn:          now,
		Status:           timeentry.StatusPending,
		RequiresApproval: c.RequiresApproval,
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	slog.Info("Contractor clocked in",
		"contractor_id", req.ContractorID,
		"tenant_id", req.TenantID,
		"entry_id", created.ID)
	return created.ToResponse(), nil
}

// ClockOut closes the contractor's open session, derives the hour tiers
// and resolves the entry's initial approval status.
func (s *TimeEntryServiceImpl) ClockOut(ctx context.Context, req timeentry.ClockOutRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	open, err := s.entryRepo.GetOpenEntry(ctx, req.TenantID, req.ContractorID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get open entry: %w", err)
	}
	if open == nil {
		return timeentry.TimeEntryResponse{}, timeentry.ErrNotClockedIn
	}

	entry := *open
	now := s.now().UTC()
	entry.ClockOut = &now
	entry.BreakMinutes = req.BreakMinutes

	s.calculateHours(&entry)
	s.resolveApprovalPolicy(&entry, now)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	slog.Info("Contractor clocked out",
		"contractor_id", req.ContractorID,
		"entry_id", entry.ID,
		"total_hours", entry.TotalHours,
		"status", entry.Status)
	return entry.ToResponse(), nil
}

func (s *TimeEntryServiceImpl) GetEntry(ctx context.Context, id, tenantID string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.entryRepo.GetByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, timeentry.ErrEntryNotFound) {
			return timeentry.TimeEntryResponse{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	return entry.ToResponse(), nil
}

func (s *TimeEntryServiceImpl) ListEntries(ctx context.Context, filter timeentry.EntryFilter, tenantID string) (timeentry.ListTimeEntriesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	entries, total, err := s.entryRepo.List(ctx, filter, tenantID)
	if err != nil {
		return timeentry.ListTimeEntriesResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	resp := timeentry.ListTimeEntriesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Entries:    make([]timeentry.TimeEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, e.ToResponse())
	}
	return resp, nil
}

// calculateHours derives the tiered hour fields from the completed
// clock-in/clock-out pair. A nil project makes the hours non-billable.
func (s *TimeEntryServiceImpl) calculateHours(entry *timeentry.TimeEntry) {
	breakdown := s.calc.Calculate(entry.ClockIn, *entry.ClockOut, entry.BreakMinutes, entry.ProjectID != nil)
	entry.TotalHours = breakdown.Total
	entry.RegularHours = breakdown.Regular
	entry.OvertimeHours = breakdown.Overtime
	entry.DoubleTimeHours = breakdown.DoubleTime
	entry.BillableHours = breakdown.Billable
	entry.NonBillableHours = breakdown.NonBillable
}

// resolveApprovalPolicy sets the entry's initial terminal or pending
// status. Entries exempt from approval are auto-approved on the spot with
// a self-referential record so the history explains the status.
func (s *TimeEntryServiceImpl) resolveApprovalPolicy(entry *timeentry.TimeEntry, decidedAt time.Time) {
	if entry.RequiresApproval {
		entry.Status = timeentry.StatusPending
		return
	}
	notes := "auto-approved by tenant policy"
	entry.Status = timeentry.StatusAutoApproved
	entry.ApprovalRecords = append(entry.ApprovalRecords, timeentry.ApprovalRecord{
		ApproverID:   entry.ContractorID,
		ApproverRole: timeentry.RoleManager,
		Decision:     timeentry.DecisionApproved,
		DecidedAt:    decidedAt,
		Notes:        &notes,
	})
}
