package exception

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
)

type fakeExceptionRepo struct {
	exceptions map[string]exception.ContractorException
}

func newFakeExceptionRepo() *fakeExceptionRepo {
	return &fakeExceptionRepo{exceptions: make(map[string]exception.ContractorException)}
}

func (f *fakeExceptionRepo) Create(ctx context.Context, e exception.ContractorException) (exception.ContractorException, error) {
	e.CreatedAt = time.Now()
	f.exceptions[e.ID] = e
	return e, nil
}

func (f *fakeExceptionRepo) GetByID(ctx context.Context, id, tenantID string) (exception.ContractorException, error) {
	e, ok := f.exceptions[id]
	if !ok || e.TenantID != tenantID {
		return exception.ContractorException{}, exception.ErrExceptionNotFound
	}
	return e, nil
}

func (f *fakeExceptionRepo) HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	for _, e := range f.exceptions {
		if e.TenantID == tenantID && e.ContractorID == contractorID &&
			e.Status != exception.StatusRejected && e.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExceptionRepo) HasOverlap(ctx context.Context, tenantID, contractorID string, start, end time.Time) (bool, error) {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		covered, _ := f.HasCoverage(ctx, tenantID, contractorID, d)
		if covered {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeExceptionRepo) List(ctx context.Context, filter exception.ExceptionFilter, tenantID string) ([]exception.ContractorException, int64, error) {
	var out []exception.ContractorException
	for _, e := range f.exceptions {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeExceptionRepo) Decide(ctx context.Context, id, tenantID string, status exception.Status, decidedBy string, reason *string) error {
	e, ok := f.exceptions[id]
	if !ok || e.TenantID != tenantID {
		return exception.ErrExceptionNotFound
	}
	if e.Status != exception.StatusPending {
		return exception.ErrExceptionAlreadyDecided
	}
	now := time.Now()
	e.Status = status
	e.DecidedBy = &decidedBy
	e.DecidedAt = &now
	e.RejectionReason = reason
	f.exceptions[id] = e
	return nil
}

type fakeRuleRepo struct {
	rules map[exception.Type]exception.AutoApprovalRule
}

func (f *fakeRuleRepo) GetByTenantAndType(ctx context.Context, tenantID string, t exception.Type) (exception.AutoApprovalRule, error) {
	if rule, ok := f.rules[t]; ok {
		return rule, nil
	}
	return exception.AutoApprovalRule{}, exception.ErrRuleNotFound
}

func (f *fakeRuleRepo) ListByTenant(ctx context.Context, tenantID string) ([]exception.AutoApprovalRule, error) {
	return nil, nil
}

func newTestService(repo *fakeExceptionRepo, rules map[exception.Type]exception.AutoApprovalRule) exception.Service {
	return NewExceptionService(repo, &fakeRuleRepo{rules: rules})
}

func TestReport_AutoApprovalByDefaultRule(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, nil)

	// sick auto-approves by default
	resp, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		Type:         exception.TypeSick,
		FullDay:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, exception.StatusAutoApproved, resp.Status)

	// vacation awaits a manager by default
	resp, err = svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-04-01",
		Type:         exception.TypeVacation,
		FullDay:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, exception.StatusPending, resp.Status)
}

func TestReport_TenantRuleOverridesDefault(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, map[exception.Type]exception.AutoApprovalRule{
		exception.TypeVacation: {Type: exception.TypeVacation, AutoApprove: true},
	})

	resp, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-04-01",
		Type:         exception.TypeVacation,
		FullDay:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, exception.StatusAutoApproved, resp.Status)
}

func TestReport_DocumentFlagCarriedFromRule(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, nil)

	resp, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		Type:         exception.TypeJuryDuty,
		FullDay:      true,
	})
	require.NoError(t, err)
	assert.True(t, resp.RequiresDocument)
	assert.Equal(t, exception.StatusAutoApproved, resp.Status)
}

func TestReport_OverlapConflicts(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, nil)

	end := "2025-03-14"
	_, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		EndDate:      &end,
		Type:         exception.TypeVacation,
		FullDay:      true,
	})
	require.NoError(t, err)

	// A pending exception blocks an overlapping report too.
	_, err = svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-14",
		Type:         exception.TypeSick,
		FullDay:      true,
	})
	assert.ErrorIs(t, err, exception.ErrExceptionOverlap)

	// Another contractor is unaffected.
	_, err = svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c2",
		StartDate:    "2025-03-14",
		Type:         exception.TypeSick,
		FullDay:      true,
	})
	assert.NoError(t, err)
}

func TestReport_Validation(t *testing.T) {
	svc := newTestService(newFakeExceptionRepo(), nil)

	_, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "not-a-date",
		Type:         exception.TypeSick,
		FullDay:      true,
	})
	assert.Error(t, err)

	_, err = svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		Type:         exception.Type("long_lunch"),
		FullDay:      true,
	})
	assert.Error(t, err)
}

func TestDecide_RejectionClearsCoverage(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, nil)

	resp, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		Type:         exception.TypeVacation,
		FullDay:      true,
	})
	require.NoError(t, err)

	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	covered, err := svc.HasCoverage(context.Background(), "tenant-1", "c1", date)
	require.NoError(t, err)
	assert.True(t, covered, "pending exceptions suppress generation")

	reason := "not enough notice"
	_, err = svc.Decide(context.Background(), exception.DecideRequest{
		ExceptionID: resp.ID,
		TenantID:    "tenant-1",
		Approve:     false,
		DecidedBy:   "mgr-1",
		Reason:      &reason,
	})
	require.NoError(t, err)

	covered, err = svc.HasCoverage(context.Background(), "tenant-1", "c1", date)
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestDecide_TerminalConflictsAndReasonRequired(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc := newTestService(repo, nil)

	resp, err := svc.Report(context.Background(), exception.ReportRequest{
		TenantID:     "tenant-1",
		ContractorID: "c1",
		StartDate:    "2025-03-12",
		Type:         exception.TypeVacation,
		FullDay:      true,
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), exception.DecideRequest{
		ExceptionID: resp.ID,
		TenantID:    "tenant-1",
		Approve:     false,
		DecidedBy:   "mgr-1",
	})
	assert.ErrorIs(t, err, exception.ErrRejectionReasonRequired)

	_, err = svc.Decide(context.Background(), exception.DecideRequest{
		ExceptionID: resp.ID,
		TenantID:    "tenant-1",
		Approve:     true,
		DecidedBy:   "mgr-1",
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), exception.DecideRequest{
		ExceptionID: resp.ID,
		TenantID:    "tenant-1",
		Approve:     true,
		DecidedBy:   "mgr-2",
	})
	assert.ErrorIs(t, err, exception.ErrExceptionAlreadyDecided)
}
