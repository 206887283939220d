package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

const contractorColumns = `
	id, tenant_id, full_name, email, default_project_id, default_hourly_rate,
	requires_approval, auto_clocking, active, created_at, updated_at`

type contractorRepository struct {
	db *database.DB
}

func NewContractorRepository(db *database.DB) contractor.ContractorRepository {
	return &contractorRepository{db: db}
}

func scanContractor(row pgx.Row) (contractor.Contractor, error) {
	var c contractor.Contractor
	err := row.Scan(
		&c.ID, &c.TenantID, &c.FullName, &c.Email, &c.DefaultProjectID, &c.DefaultHourlyRate,
		&c.RequiresApproval, &c.AutoClocking, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// GetByID implements contractor.ContractorRepository.
func (r *contractorRepository) GetByID(ctx context.Context, id string, tenantID string) (contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM contractors
		WHERE id = $1 AND tenant_id = $2
	`, contractorColumns)

	c, err := scanContractor(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contractor.Contractor{}, contractor.ErrContractorNotFound
		}
		return contractor.Contractor{}, fmt.Errorf("failed to get contractor: %w", err)
	}

	return c, nil
}

// ListAutoClockingEnabled implements contractor.ContractorRepository.
// Cross-tenant on purpose: the recurring cycles sweep every tenant.
func (r *contractorRepository) ListAutoClockingEnabled(ctx context.Context, mode contractor.ProcessingMode) ([]contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM contractors
		WHERE active
		  AND (auto_clocking->>'enabled')::boolean
		  AND auto_clocking->>'mode' = $1
		ORDER BY tenant_id, id
	`, contractorColumns)

	rows, err := q.Query(ctx, query, string(mode))
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-clocking contractors: %w", err)
	}
	defer rows.Close()

	var contractors []contractor.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contractor: %w", err)
		}
		contractors = append(contractors, c)
	}

	return contractors, nil
}

// UpdateProfile implements contractor.ContractorRepository.
func (r *contractorRepository) UpdateProfile(ctx context.Context, id, tenantID string, profile contractor.AutoClockingProfile) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contractors SET
			auto_clocking = $3,
			updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	tag, err := q.Exec(ctx, query, id, tenantID, profile)
	if err != nil {
		return fmt.Errorf("failed to update auto-clocking profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contractor.ErrContractorNotFound
	}

	return nil
}

// GetDefaultRates implements contractor.ContractorRepository.
func (r *contractorRepository) GetDefaultRates(ctx context.Context, tenantID string, ids []string) (map[string]float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, default_hourly_rate
		FROM contractors
		WHERE tenant_id = $1
		  AND id = ANY($2)
		  AND default_hourly_rate IS NOT NULL
	`

	rows, err := q.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractor rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var id string
		var rate float64
		if err := rows.Scan(&id, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan contractor rate: %w", err)
		}
		rates[id] = rate
	}

	return rates, nil
}
