package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
)

func strPtr(s string) *string { return &s }

func entry(contractorID string, projectID *string, day time.Time, total, regular, overtime, doubleTime, billable float64, status timeentry.Status) timeentry.TimeEntry {
	return timeentry.TimeEntry{
		ID:               day.Format("2006-01-02") + "-" + contractorID,
		TenantID:         "tenant-1",
		ContractorID:     contractorID,
		ProjectID:        projectID,
		WorkDate:         day,
		TotalHours:       total,
		RegularHours:     regular,
		OvertimeHours:    overtime,
		DoubleTimeHours:  doubleTime,
		BillableHours:    billable,
		NonBillableHours: total - billable,
		Status:           status,
	}
}

func TestSummarize_ByProjectWithRates(t *testing.T) {
	mon := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)
	entries := []timeentry.TimeEntry{
		entry("c-1", strPtr("proj-a"), mon, 8, 8, 0, 0, 8, timeentry.StatusApproved),
		entry("c-1", strPtr("proj-a"), tue, 10, 8, 2, 0, 10, timeentry.StatusApproved),
		entry("c-1", strPtr("proj-b"), tue, 2, 2, 0, 0, 2, timeentry.StatusPending),
		entry("c-1", nil, mon, 1.5, 1.5, 0, 0, 0, timeentry.StatusAutoApproved),
	}
	rates := Rates{
		ByProject: map[string]float64{"proj-a": 100},
		Default:   map[string]float64{"c-1": 80},
	}

	byProject, byDate, summary := Summarize(entries, rates)

	require.Len(t, byProject, 3)
	// Sorted by project id; the no-project bucket comes first.
	assert.Equal(t, "", byProject[0].ProjectID)
	assert.Equal(t, 0.0, byProject[0].BillableAmount)

	assert.Equal(t, "proj-a", byProject[1].ProjectID)
	assert.Equal(t, 18.0, byProject[1].TotalHours)
	assert.Equal(t, 100.0, byProject[1].HourlyRate)
	assert.Equal(t, 1800.0, byProject[1].BillableAmount)

	// proj-b has no project rate, so the contractor default applies.
	assert.Equal(t, "proj-b", byProject[2].ProjectID)
	assert.Equal(t, 80.0, byProject[2].HourlyRate)
	assert.Equal(t, 160.0, byProject[2].BillableAmount)

	require.Len(t, byDate, 2)
	assert.Equal(t, "2025-06-09", byDate[0].Date)
	assert.Equal(t, 9.5, byDate[0].TotalHours)
	assert.Equal(t, "2025-06-10", byDate[1].Date)
	assert.Equal(t, 12.0, byDate[1].TotalHours)
	assert.Equal(t, 2.0, byDate[1].OvertimeHours)

	assert.Equal(t, 4, summary.Entries)
	assert.Equal(t, 21.5, summary.TotalHours)
	assert.Equal(t, 20.0, summary.BillableHours)
	assert.Equal(t, 1.5, summary.NonBillableHours)
	assert.Equal(t, 2, summary.StatusCounts["approved"])
	assert.Equal(t, 1, summary.StatusCounts["pending"])
	assert.Equal(t, 1, summary.StatusCounts["auto_approved"])
}

func TestSummarize_Empty(t *testing.T) {
	byProject, byDate, summary := Summarize(nil, Rates{})
	assert.Empty(t, byProject)
	assert.Empty(t, byDate)
	assert.Equal(t, 0, summary.Entries)
	assert.Equal(t, 0.0, summary.TotalHours)
}

type fakeEntryRepo struct {
	entries []timeentry.TimeEntry
}

func (r *fakeEntryRepo) Create(_ context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	return e, nil
}

func (r *fakeEntryRepo) CreateAutoGenerated(_ context.Context, e timeentry.TimeEntry) (bool, error) {
	return false, nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id, tenantID string) (timeentry.TimeEntry, error) {
	return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
}

func (r *fakeEntryRepo) GetOpenEntry(_ context.Context, tenantID, contractorID string) (*timeentry.TimeEntry, error) {
	return nil, nil
}

func (r *fakeEntryRepo) HasAutoGenerated(_ context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	return false, nil
}

func (r *fakeEntryRepo) List(_ context.Context, filter timeentry.EntryFilter, tenantID string) ([]timeentry.TimeEntry, int64, error) {
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && (filter.ContractorID == nil || e.ContractorID == *filter.ContractorID) {
			out = append(out, e)
		}
	}
	total := int64(len(out))
	// Single-page fake; the pagination loop stops once it has everything.
	if filter.Page > 1 {
		return nil, total, nil
	}
	return out, total, nil
}

func (r *fakeEntryRepo) Update(_ context.Context, e timeentry.TimeEntry) error { return nil }

func (r *fakeEntryRepo) AppendDecision(_ context.Context, id, tenantID string, status timeentry.Status, record timeentry.ApprovalRecord) error {
	return nil
}

func (r *fakeEntryRepo) DeleteAutoGenerated(_ context.Context, tenantID, contractorID string, start, end time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeEntryRepo) CountAutoGeneratedByMode(_ context.Context, since time.Time) (map[string]int64, error) {
	return nil, nil
}

type fakeProjectRepo struct {
	rates map[string]float64
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id, tenantID string) (project.Project, error) {
	return project.Project{}, project.ErrProjectNotFound
}

func (r *fakeProjectRepo) GetRates(_ context.Context, tenantID string, ids []string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, id := range ids {
		if rate, ok := r.rates[id]; ok {
			out[id] = rate
		}
	}
	return out, nil
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
	out := make(map[string]float64)
	for _, id := range ids {
		if c, ok := r.contractors[id]; ok && c.DefaultHourlyRate != nil {
			out[id] = *c.DefaultHourlyRate
		}
	}
	return out, nil
}

func TestBuildTimesheet(t *testing.T) {
	rate := 90.0
	mon := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	entries := &fakeEntryRepo{entries: []timeentry.TimeEntry{
		entry("c-1", strPtr("proj-a"), mon, 8, 8, 0, 0, 8, timeentry.StatusApproved),
		entry("c-1", nil, mon.AddDate(0, 0, 1), 4, 4, 0, 0, 0, timeentry.StatusPending),
	}}
	svc := NewTimesheetService(entries,
		&fakeProjectRepo{rates: map[string]float64{"proj-a": 120}},
		&fakeContractorRepo{contractors: map[string]contractor.Contractor{
			"c-1": {ID: "c-1", TenantID: "tenant-1", DefaultHourlyRate: &rate},
		}})

	sheet, err := svc.BuildTimesheet(context.Background(), "tenant-1", "c-1", mon, mon.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", sheet.StartDate)
	assert.Equal(t, 2, sheet.Summary.Entries)
	assert.Equal(t, 12.0, sheet.Summary.TotalHours)
	require.Len(t, sheet.ByProject, 2)
	assert.Equal(t, 960.0, sheet.ByProject[1].BillableAmount)
}

func TestBuildTimesheet_UnknownContractor(t *testing.T) {
	svc := NewTimesheetService(&fakeEntryRepo{}, &fakeProjectRepo{}, &fakeContractorRepo{})
	_, err := svc.BuildTimesheet(context.Background(), "tenant-1", "missing",
		time.Now(), time.Now().AddDate(0, 0, 7))
	assert.ErrorIs(t, err, contractor.ErrContractorNotFound)
}
