package approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/project"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
)

// fakeEntryRepo is an in-memory TimeEntryRepository covering the paths the
// approval workflow touches.
type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]timeentry.TimeEntry)}
}

func (f *fakeEntryRepo) Create(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeEntryRepo) CreateAutoGenerated(ctx context.Context, e timeentry.TimeEntry) (bool, error) {
	f.entries[e.ID] = e
	return true, nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id, tenantID string) (timeentry.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.TenantID != tenantID {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) GetOpenEntry(ctx context.Context, tenantID, contractorID string) (*timeentry.TimeEntry, error) {
	return nil, nil
}

func (f *fakeEntryRepo) HasAutoGenerated(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEntryRepo) List(ctx context.Context, filter timeentry.EntryFilter, tenantID string) ([]timeentry.TimeEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeEntryRepo) Update(ctx context.Context, e timeentry.TimeEntry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeEntryRepo) AppendDecision(ctx context.Context, id, tenantID string, status timeentry.Status, record timeentry.ApprovalRecord) error {
	e, ok := f.entries[id]
	if !ok || e.TenantID != tenantID {
		return timeentry.ErrEntryNotFound
	}
	if e.Status != timeentry.StatusPending {
		return timeentry.ErrEntryAlreadyDecided
	}
	e.Status = status
	e.ApprovalRecords = append(e.ApprovalRecords, record)
	f.entries[id] = e
	return nil
}

func (f *fakeEntryRepo) DeleteAutoGenerated(ctx context.Context, tenantID, contractorID string, start, end time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeEntryRepo) CountAutoGeneratedByMode(ctx context.Context, since time.Time) (map[string]int64, error) {
	return nil, nil
}

type fakeProjectRepo struct {
	projects map[string]project.Project
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id, tenantID string) (project.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.TenantID != tenantID {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) GetRates(ctx context.Context, tenantID string, ids []string) (map[string]float64, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func pendingEntry(id, tenantID string) timeentry.TimeEntry {
	in := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	return timeentry.TimeEntry{
		ID:               id,
		TenantID:         tenantID,
		ContractorID:     "contractor-1",
		WorkDate:         in.Truncate(24 * time.Hour),
		ClockIn:          in,
		ClockOut:         &out,
		TotalHours:       8,
		RegularHours:     8,
		Status:           timeentry.StatusPending,
		RequiresApproval: true,
	}
}

func newTestService(entryRepo *fakeEntryRepo, projectRepo *fakeProjectRepo) timeentry.ApprovalService {
	if projectRepo == nil {
		projectRepo = &fakeProjectRepo{projects: map[string]project.Project{}}
	}
	return NewApprovalService(entryRepo, projectRepo)
}

func TestDecide_ManagerApprove(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["e1"] = pendingEntry("e1", "tenant-1")
	svc := newTestService(repo, nil)

	resp, err := svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})

	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusApproved, resp.Status)
	require.Len(t, resp.ApprovalRecords, 1)
	assert.Equal(t, "mgr-1", resp.ApprovalRecords[0].ApproverID)
	assert.Equal(t, timeentry.DecisionApproved, resp.ApprovalRecords[0].Decision)
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["e1"] = pendingEntry("e1", "tenant-1")
	svc := newTestService(repo, nil)

	_, err := svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionRejected,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})
	assert.ErrorIs(t, err, timeentry.ErrRejectionReasonRequired)

	// Entry is untouched.
	e, _ := repo.GetByID(context.Background(), "e1", "tenant-1")
	assert.Equal(t, timeentry.StatusPending, e.Status)
	assert.Empty(t, e.ApprovalRecords)

	_, err = svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionRejected,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
		Notes:        strPtr("hours do not match the contract"),
	})
	assert.NoError(t, err)
}

func TestDecide_TerminalEntryConflicts(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["e1"] = pendingEntry("e1", "tenant-1")
	svc := newTestService(repo, nil)

	_, err := svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionRejected,
		ApproverID:   "mgr-2",
		ApproverRole: timeentry.RoleManager,
		Notes:        strPtr("changed my mind"),
	})
	assert.ErrorIs(t, err, timeentry.ErrEntryAlreadyDecided)

	// History carries exactly the first terminal record.
	e, _ := repo.GetByID(context.Background(), "e1", "tenant-1")
	require.Len(t, e.ApprovalRecords, 1)
	assert.Equal(t, "mgr-1", e.ApprovalRecords[0].ApproverID)
}

func TestDecide_WrongTenantNotFound(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["e1"] = pendingEntry("e1", "tenant-1")
	svc := newTestService(repo, nil)

	_, err := svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-2",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})
	assert.ErrorIs(t, err, timeentry.ErrEntryNotFound)
}

func TestDecide_ClientAuthorization(t *testing.T) {
	repo := newFakeEntryRepo()
	entryWithProject := pendingEntry("e1", "tenant-1")
	entryWithProject.ProjectID = strPtr("proj-1")
	repo.entries["e1"] = entryWithProject
	repo.entries["e2"] = pendingEntry("e2", "tenant-1") // no project

	projects := &fakeProjectRepo{projects: map[string]project.Project{
		"proj-1": {
			ID:              "proj-1",
			TenantID:        "tenant-1",
			Name:            "Platform Rebuild",
			ClientApprovers: project.ClientApprovers{"client-9"},
		},
	}}
	svc := newTestService(repo, projects)

	// Named client approver succeeds.
	_, err := svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "client-9",
		ApproverRole: timeentry.RoleClient,
	})
	assert.NoError(t, err)

	// Unnamed client is refused.
	repo.entries["e1"] = entryWithProject
	_, err = svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e1",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "client-0",
		ApproverRole: timeentry.RoleClient,
	})
	assert.ErrorIs(t, err, timeentry.ErrApproverNotAuthorized)

	// Client role cannot decide entries without a project.
	_, err = svc.Decide(context.Background(), timeentry.DecideRequest{
		EntryID:      "e2",
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "client-9",
		ApproverRole: timeentry.RoleClient,
	})
	assert.ErrorIs(t, err, timeentry.ErrApproverNotAuthorized)
}

func TestBulkDecide_PartialFailure(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.entries["e1"] = pendingEntry("e1", "tenant-1")
	repo.entries["e2"] = pendingEntry("e2", "tenant-1")
	repo.entries["e3"] = pendingEntry("e3", "tenant-1")
	svc := newTestService(repo, nil)

	result, err := svc.BulkDecide(context.Background(), timeentry.BulkDecideRequest{
		EntryIDs:     []string{"e1", "missing-1", "e2", "missing-2", "e3"},
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Outcomes, 5)

	for _, id := range []string{"e1", "e2", "e3"} {
		e, getErr := repo.GetByID(context.Background(), id, "tenant-1")
		require.NoError(t, getErr)
		assert.Equal(t, timeentry.StatusApproved, e.Status)
	}
	for _, o := range result.Outcomes {
		if o.EntryID == "missing-1" || o.EntryID == "missing-2" {
			assert.False(t, o.Success)
			assert.Equal(t, "NOT_FOUND", o.Code)
		}
	}
}

func TestBulkDecide_AlreadyDecidedOutcomeCode(t *testing.T) {
	repo := newFakeEntryRepo()
	decided := pendingEntry("e1", "tenant-1")
	decided.Status = timeentry.StatusRejected
	repo.entries["e1"] = decided
	repo.entries["e2"] = pendingEntry("e2", "tenant-1")
	svc := newTestService(repo, nil)

	result, err := svc.BulkDecide(context.Background(), timeentry.BulkDecideRequest{
		EntryIDs:     []string{"e1", "e2"},
		TenantID:     "tenant-1",
		Decision:     timeentry.DecisionApproved,
		ApproverID:   "mgr-1",
		ApproverRole: timeentry.RoleManager,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "CONFLICT", result.Outcomes[0].Code)
}
