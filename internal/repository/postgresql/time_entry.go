package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/timeentry"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

const timeEntryColumns = `
	t.id, t.tenant_id, t.contractor_id, t.project_id, t.client_id,
	t.work_date, t.clock_in, t.clock_out, t.break_minutes,
	t.total_hours, t.regular_hours, t.overtime_hours, t.double_time_hours,
	t.billable_hours, t.non_billable_hours,
	t.status, t.requires_approval, t.approval_records,
	t.is_auto_generated, t.generated_at,
	t.created_at, t.updated_at`

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.ContractorID, &e.ProjectID, &e.ClientID,
		&e.WorkDate, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.TotalHours, &e.RegularHours, &e.OvertimeHours, &e.DoubleTimeHours,
		&e.BillableHours, &e.NonBillableHours,
		&e.Status, &e.RequiresApproval, &e.ApprovalRecords,
		&e.IsAutoGenerated, &e.GeneratedAt,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, tenant_id, contractor_id, project_id, client_id,
			work_date, clock_in, clock_out, break_minutes,
			total_hours, regular_hours, overtime_hours, double_time_hours,
			billable_hours, non_billable_hours,
			status, requires_approval, approval_records,
			is_auto_generated, generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.TenantID, entry.ContractorID, entry.ProjectID, entry.ClientID,
		entry.WorkDate, entry.ClockIn, entry.ClockOut, entry.BreakMinutes,
		entry.TotalHours, entry.RegularHours, entry.OvertimeHours, entry.DoubleTimeHours,
		entry.BillableHours, entry.NonBillableHours,
		entry.Status, entry.RequiresApproval, entry.ApprovalRecords,
		entry.IsAutoGenerated, entry.GeneratedAt,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// CreateAutoGenerated implements timeentry.TimeEntryRepository. The
// partial unique index on (tenant_id, contractor_id, work_date) WHERE
// is_auto_generated makes the check-then-insert a single atomic step;
// losing the race surfaces as created=false.
func (r *timeEntryRepository) CreateAutoGenerated(ctx context.Context, entry timeentry.TimeEntry) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, tenant_id, contractor_id, project_id, client_id,
			work_date, clock_in, clock_out, break_minutes,
			total_hours, regular_hours, overtime_hours, double_time_hours,
			billable_hours, non_billable_hours,
			status, requires_approval, approval_records,
			is_auto_generated, generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, TRUE, $19
		)
		ON CONFLICT (tenant_id, contractor_id, work_date) WHERE is_auto_generated
		DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		entry.ID, entry.TenantID, entry.ContractorID, entry.ProjectID, entry.ClientID,
		entry.WorkDate, entry.ClockIn, entry.ClockOut, entry.BreakMinutes,
		entry.TotalHours, entry.RegularHours, entry.OvertimeHours, entry.DoubleTimeHours,
		entry.BillableHours, entry.NonBillableHours,
		entry.Status, entry.RequiresApproval, entry.ApprovalRecords,
		entry.GeneratedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create auto-generated entry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, tenantID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM time_entries t
		WHERE t.id = $1 AND t.tenant_id = $2
	`, timeEntryColumns)

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// GetOpenEntry implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetOpenEntry(ctx context.Context, tenantID, contractorID string) (*timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM time_entries t
		WHERE t.tenant_id = $1
		  AND t.contractor_id = $2
		  AND t.clock_out IS NULL
		ORDER BY t.clock_in DESC
		LIMIT 1
	`, timeEntryColumns)

	entry, err := scanTimeEntry(q.QueryRow(ctx, query, tenantID, contractorID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open entry: %w", err)
	}

	return &entry, nil
}

// HasAutoGenerated implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) HasAutoGenerated(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_entries
			WHERE tenant_id = $1
			  AND contractor_id = $2
			  AND work_date = $3
			  AND is_auto_generated
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, tenantID, contractorID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check auto-generated entry: %w", err)
	}

	return exists, nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timeentry.EntryFilter, tenantID string) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "t.tenant_id = $1"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.ContractorID != nil && *filter.ContractorID != "" {
		baseWhere += fmt.Sprintf(" AND t.contractor_id = $%d", argIdx)
		args = append(args, *filter.ContractorID)
		argIdx++
	}
	if filter.ProjectID != nil && *filter.ProjectID != "" {
		baseWhere += fmt.Sprintf(" AND t.project_id = $%d", argIdx)
		args = append(args, *filter.ProjectID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND t.work_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND t.work_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.IsAutoGenerated != nil {
		baseWhere += fmt.Sprintf(" AND t.is_auto_generated = $%d", argIdx)
		args = append(args, *filter.IsAutoGenerated)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM time_entries t WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	orderByField := "t.work_date"
	switch filter.SortBy {
	case "clock_in":
		orderByField = "t.clock_in"
	case "status":
		orderByField = "t.status"
	case "total_hours":
		orderByField = "t.total_hours"
	case "created_at":
		orderByField = "t.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, c.full_name AS contractor_name
		FROM time_entries t
		LEFT JOIN contractors c ON c.id = t.contractor_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, timeEntryColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		var e timeentry.TimeEntry
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.ContractorID, &e.ProjectID, &e.ClientID,
			&e.WorkDate, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
			&e.TotalHours, &e.RegularHours, &e.OvertimeHours, &e.DoubleTimeHours,
			&e.BillableHours, &e.NonBillableHours,
			&e.Status, &e.RequiresApproval, &e.ApprovalRecords,
			&e.IsAutoGenerated, &e.GeneratedAt,
			&e.CreatedAt, &e.UpdatedAt,
			&e.ContractorName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, total, nil
}

// Update implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Update(ctx context.Context, entry timeentry.TimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries SET
			clock_out = $3,
			break_minutes = $4,
			total_hours = $5,
			regular_hours = $6,
			overtime_hours = $7,
			double_time_hours = $8,
			billable_hours = $9,
			non_billable_hours = $10,
			status = $11,
			approval_records = $12,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	tag, err := q.Exec(ctx, query,
		entry.ID, entry.TenantID,
		entry.ClockOut, entry.BreakMinutes,
		entry.TotalHours, entry.RegularHours, entry.OvertimeHours, entry.DoubleTimeHours,
		entry.BillableHours, entry.NonBillableHours,
		entry.Status, entry.ApprovalRecords,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrEntryNotFound
	}

	return nil
}

// AppendDecision implements timeentry.TimeEntryRepository. The status
// guard makes the terminal transition atomic: a concurrent decision that
// already landed leaves no pending row to match, and the follow-up read
// distinguishes a missing entry from a decided one.
func (r *timeEntryRepository) AppendDecision(ctx context.Context, id, tenantID string, status timeentry.Status, record timeentry.ApprovalRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries SET
			status = $3,
			approval_records = approval_records || $4::jsonb,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'pending'
	`

	recordJSON, err := timeentry.ApprovalRecords{record}.Value()
	if err != nil {
		return fmt.Errorf("failed to encode approval record: %w", err)
	}

	tag, err := q.Exec(ctx, query, id, tenantID, status, recordJSON)
	if err != nil {
		return fmt.Errorf("failed to append approval decision: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current timeentry.Status
	err = q.QueryRow(ctx,
		"SELECT status FROM time_entries WHERE id = $1 AND tenant_id = $2",
		id, tenantID,
	).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeentry.ErrEntryNotFound
		}
		return fmt.Errorf("failed to check entry status: %w", err)
	}

	return timeentry.ErrEntryAlreadyDecided
}

// DeleteAutoGenerated implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) DeleteAutoGenerated(ctx context.Context, tenantID, contractorID string, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM time_entries
		WHERE tenant_id = $1
		  AND contractor_id = $2
		  AND work_date BETWEEN $3 AND $4
		  AND is_auto_generated
	`

	tag, err := q.Exec(ctx, query, tenantID, contractorID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to delete auto-generated entries: %w", err)
	}

	return tag.RowsAffected(), nil
}

// CountAutoGeneratedByMode implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) CountAutoGeneratedByMode(ctx context.Context, since time.Time) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(c.auto_clocking->>'mode', 'unknown') AS mode, COUNT(*)
		FROM time_entries t
		JOIN contractors c ON c.id = t.contractor_id
		WHERE t.is_auto_generated
		  AND t.generated_at >= $1
		GROUP BY 1
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count auto-generated entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var mode string
		var count int64
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[mode] = count
	}

	return counts, nil
}
