package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

const exceptionColumns = `
	id, tenant_id, contractor_id, start_date, end_date, type, full_day,
	hours_affected, window_start, window_end,
	status, requires_document, decided_by, decided_at, rejection_reason,
	created_at, updated_at`

type exceptionRepository struct {
	db *database.DB
}

func NewExceptionRepository(db *database.DB) exception.ExceptionRepository {
	return &exceptionRepository{db: db}
}

func scanException(row pgx.Row) (exception.ContractorException, error) {
	var e exception.ContractorException
	err := row.Scan(
		&e.ID, &e.TenantID, &e.ContractorID, &e.StartDate, &e.EndDate, &e.Type, &e.FullDay,
		&e.HoursAffected, &e.WindowStart, &e.WindowEnd,
		&e.Status, &e.RequiresDocument, &e.DecidedBy, &e.DecidedAt, &e.RejectionReason,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements exception.ExceptionRepository.
func (r *exceptionRepository) Create(ctx context.Context, e exception.ContractorException) (exception.ContractorException, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO contractor_exceptions (
			id, tenant_id, contractor_id, start_date, end_date, type, full_day,
			hours_affected, window_start, window_end,
			status, requires_document, decided_by, decided_at, rejection_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		e.ID, e.TenantID, e.ContractorID, e.StartDate, e.EndDate, e.Type, e.FullDay,
		e.HoursAffected, e.WindowStart, e.WindowEnd,
		e.Status, e.RequiresDocument, e.DecidedBy, e.DecidedAt, e.RejectionReason,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		return exception.ContractorException{}, fmt.Errorf("failed to create exception: %w", err)
	}

	return e, nil
}

// GetByID implements exception.ExceptionRepository.
func (r *exceptionRepository) GetByID(ctx context.Context, id string, tenantID string) (exception.ContractorException, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM contractor_exceptions
		WHERE id = $1 AND tenant_id = $2
	`, exceptionColumns)

	e, err := scanException(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return exception.ContractorException{}, exception.ErrExceptionNotFound
		}
		return exception.ContractorException{}, fmt.Errorf("failed to get exception: %w", err)
	}

	return e, nil
}

// HasCoverage implements exception.ExceptionRepository. Pending
// exceptions count alongside approved ones: suppression is optimistic.
func (r *exceptionRepository) HasCoverage(ctx context.Context, tenantID, contractorID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM contractor_exceptions
			WHERE tenant_id = $1
			  AND contractor_id = $2
			  AND status <> 'rejected'
			  AND start_date <= $3
			  AND COALESCE(end_date, start_date) >= $3
		)
	`

	var covered bool
	if err := q.QueryRow(ctx, query, tenantID, contractorID, date).Scan(&covered); err != nil {
		return false, fmt.Errorf("failed to check exception coverage: %w", err)
	}

	return covered, nil
}

// HasOverlap implements exception.ExceptionRepository.
func (r *exceptionRepository) HasOverlap(ctx context.Context, tenantID, contractorID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM contractor_exceptions
			WHERE tenant_id = $1
			  AND contractor_id = $2
			  AND status <> 'rejected'
			  AND start_date <= $4
			  AND COALESCE(end_date, start_date) >= $3
		)
	`

	var overlaps bool
	if err := q.QueryRow(ctx, query, tenantID, contractorID, start, end).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("failed to check exception overlap: %w", err)
	}

	return overlaps, nil
}

// List implements exception.ExceptionRepository.
func (r *exceptionRepository) List(ctx context.Context, filter exception.ExceptionFilter, tenantID string) ([]exception.ContractorException, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "tenant_id = $1"
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.ContractorID != nil && *filter.ContractorID != "" {
		baseWhere += fmt.Sprintf(" AND contractor_id = $%d", argIdx)
		args = append(args, *filter.ContractorID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND COALESCE(end_date, start_date) >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND start_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM contractor_exceptions WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count exceptions: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s FROM contractor_exceptions
		WHERE %s
		ORDER BY start_date DESC
		LIMIT $%d OFFSET $%d
	`, exceptionColumns, baseWhere, argIdx, argIdx+1)

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
		return nil, 0, fmt.Errorf("failed to query exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []exception.ContractorException
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan exception: %w", err)
		}
		exceptions = append(exceptions, e)
	}

	return exceptions, total, nil
}

// Decide implements exception.ExceptionRepository. The pending guard
// makes the terminal transition atomic.
func (r *exceptionRepository) Decide(ctx context.Context, id, tenantID string, status exception.Status, decidedBy string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contractor_exceptions SET
			status = $3,
			decided_by = $4,
			decided_at = NOW(),
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, tenantID, status, decidedBy, reason)
	if err != nil {
		return fmt.Errorf("failed to decide exception: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current exception.Status
	err = q.QueryRow(ctx,
		"SELECT status FROM contractor_exceptions WHERE id = $1 AND tenant_id = $2",
		id, tenantID,
	).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return exception.ErrExceptionNotFound
		}
		return fmt.Errorf("failed to check exception status: %w", err)
	}

	return exception.ErrExceptionAlreadyDecided
}
