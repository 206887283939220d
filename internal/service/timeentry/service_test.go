package timeentry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/hours"
)

type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]timeentry.TimeEntry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeEntryRepo) CreateAutoGenerated(_ context.Context, entry timeentry.TimeEntry) (bool, error) {
	r.entries[entry.ID] = entry
	return true, nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id, tenantID string) (timeentry.TimeEntry, error) {
	e, ok := r.entries[id]
	if !ok || e.TenantID != tenantID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (r *fakeEntryRepo) GetOpenEntry(_ context.Context, tenantID, contractorID string) (*timeentry.TimeEntry, error) {
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.ContractorID == contractorID && e.IsOpen() {
			open := e
			return &open, nil
		}
	}
	return nil, nil
}

func (r *fakeEntryRepo) HasAutoGenerated(_ context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	return false, nil
}

func (r *fakeEntryRepo) List(_ context.Context, filter timeentry.EntryFilter, tenantID string) ([]timeentry.TimeEntry, int64, error) {
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEntryRepo) Update(_ context.Context, entry timeentry.TimeEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeEntryRepo) AppendDecision(_ context.Context, id, tenantID string, status timeentry.Status, record timeentry.ApprovalRecord) error {
	return nil
}

func (r *fakeEntryRepo) DeleteAutoGenerated(_ context.Context, tenantID, contractorID string, start, end time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeEntryRepo) CountAutoGeneratedByMode(_ context.Context, since time.Time) (map[string]int64, error) {
	return nil, nil
}

type fakeContractorRepo struct {
	contractors map[string]contractor.Contractor
}

func (r *fakeContractorRepo) GetByID(_ context.Context, id, tenantID string) (contractor.Contractor, error) {
	c, ok := r.contractors[id]
	if !ok || c.TenantID != tenantID {
		return contractor.Contractor{}, contractor.ErrContractorNotFound
	}
	return c, nil
}

func (r *fakeContractorRepo) ListAutoClockingEnabled(_ context.Context, mode contractor.ProcessingMode) ([]contractor.Contractor, error) {
	return nil, nil
}

func (r *fakeContractorRepo) UpdateProfile(_ context.Context, id, tenantID string, profile contractor.AutoClockingProfile) error {
	return nil
}

func (r *fakeContractorRepo) GetDefaultRates(_ context.Context, tenantID string, ids []string) (map[string]float64, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func newTestService(requiresApproval bool) (*TimeEntryServiceImpl, *fakeEntryRepo) {
	entries := newFakeEntryRepo()
	contractors := &fakeContractorRepo{contractors: map[string]contractor.Contractor{
		"c-1": {
			ID:               "c-1",
			TenantID:         "tenant-1",
			FullName:         "Test Contractor",
			DefaultProjectID: strPtr("proj-1"),
			RequiresApproval: requiresApproval,
			Active:           true,
		},
	}}
	svc := NewTimeEntryService(entries, contractors, hours.NewCalculator())
	svc.now = func() time.Time { return time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC) }
	return svc, entries
}

func TestClockIn(t *testing.T) {
	svc, _ := newTestService(true)

	resp, err := svc.ClockIn(context.Background(), timeentry.ClockInRequest{
		TenantID:     "tenant-1",
		ContractorID: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusPending, resp.Status)
	assert.Equal(t, "2025-06-11", resp.WorkDate)
	assert.Nil(t, resp.ClockOut)
	// Falls back to the contractor's default project.
	require.NotNil(t, resp.ProjectID)
	assert.Equal(t, "proj-1", *resp.ProjectID)
}

func TestClockIn_OpenSessionConflicts(t *testing.T) {
	svc, _ := newTestService(true)
	ctx := context.Background()
	req := timeentry.ClockInRequest{TenantID: "tenant-1", ContractorID: "c-1"}

	_, err := svc.ClockIn(ctx, req)
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, req)
	assert.ErrorIs(t, err, timeentry.ErrAlreadyClockedIn)
}

func TestClockIn_UnknownContractor(t *testing.T) {
	svc, _ := newTestService(true)
	_, err := svc.ClockIn(context.Background(), timeentry.ClockInRequest{
		TenantID:     "tenant-1",
		ContractorID: "missing",
	})
	assert.ErrorIs(t, err, contractor.ErrContractorNotFound)
}

func TestClockOut_ComputesTiers(t *testing.T) {
	svc, _ := newTestService(true)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, timeentry.ClockInRequest{TenantID: "tenant-1", ContractorID: "c-1"})
	require.NoError(t, err)

	// 10.5h span minus a 30-minute break: 8 regular + 2 overtime.
	svc.now = func() time.Time { return time.Date(2025, 6, 11, 19, 30, 0, 0, time.UTC) }
	resp, err := svc.ClockOut(ctx, timeentry.ClockOutRequest{
		TenantID:     "tenant-1",
		ContractorID: "c-1",
		BreakMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.TotalHours)
	assert.Equal(t, 8.0, resp.RegularHours)
	assert.Equal(t, 2.0, resp.OvertimeHours)
	assert.Equal(t, 0.0, resp.DoubleTimeHours)
	assert.Equal(t, 10.0, resp.BillableHours)
	assert.Equal(t, timeentry.StatusPending, resp.Status)
	require.NotNil(t, resp.ClockOut)
}

func TestClockOut_WithoutOpenSession(t *testing.T) {
	svc, _ := newTestService(true)
	_, err := svc.ClockOut(context.Background(), timeentry.ClockOutRequest{
		TenantID:     "tenant-1",
		ContractorID: "c-1",
	})
	assert.ErrorIs(t, err, timeentry.ErrNotClockedIn)
}

func TestClockOut_ApprovalExemptIsAutoApproved(t *testing.T) {
	svc, entries := newTestService(false)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, timeentry.ClockInRequest{TenantID: "tenant-1", ContractorID: "c-1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 11, 17, 0, 0, 0, time.UTC) }
	resp, err := svc.ClockOut(ctx, timeentry.ClockOutRequest{TenantID: "tenant-1", ContractorID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusAutoApproved, resp.Status)
	require.Len(t, resp.ApprovalRecords, 1)
	assert.Equal(t, "c-1", resp.ApprovalRecords[0].ApproverID)

	stored, err := entries.GetByID(ctx, resp.ID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusAutoApproved, stored.Status)
}

func TestGetEntry_TenantIsolation(t *testing.T) {
	svc, _ := newTestService(true)
	ctx := context.Background()

	resp, err := svc.ClockIn(ctx, timeentry.ClockInRequest{TenantID: "tenant-1", ContractorID: "c-1"})
	require.NoError(t, err)

	_, err = svc.GetEntry(ctx, resp.ID, "tenant-2")
	assert.ErrorIs(t, err, timeentry.ErrEntryNotFound)
}
